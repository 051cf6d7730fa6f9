package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quiverdb/quiver/gologger"
	"github.com/quiverdb/quiver/http_server"
	"github.com/quiverdb/quiver/record"
	"github.com/quiverdb/quiver/server"
	"github.com/quiverdb/quiver/storage"
	"github.com/quiverdb/quiver/utils"
)

var logger = gologger.NewLogger()

func main() {
	store := storage.NewParquetStore(utils.GetEnvOrDefault("DATA_DIR", "./data"), 2)
	eng := server.NewEngine(store)

	if err := seedDemoDatasets(eng); err != nil {
		logger.Error().Err(err).Msg("error seeding demo datasets")
		os.Exit(1)
	}
	if err := runDemoQuery(eng); err != nil {
		logger.Error().Err(err).Msg("error running demo query")
		os.Exit(1)
	}

	httpServer := http_server.StartHTTPServer(eng)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Warn().Msg("received shutdown signal!")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("error shutting down http server")
		os.Exit(1)
	}
}

// seedDemoDatasets registers the two datasets the demo query joins.
func seedDemoDatasets(eng *server.Engine) error {
	videoSchema := record.NewSchema()
	videoSchema.AddStringField("id")
	videoSchema.AddStringField("title")
	videoSchema.AddIntField("likes")

	if _, err := eng.CreateDataset("videos", videoSchema, []record.Row{
		record.NewRow("V1", "T1", 10),
		record.NewRow("V2", "T2", 50),
	}, 2); err != nil {
		return err
	}

	commentSchema := record.NewSchema()
	commentSchema.AddStringField("id")
	commentSchema.AddStringField("comment")

	_, err := eng.CreateDataset("comments", commentSchema, []record.Row{
		record.NewRow("V1", "great"),
		record.NewRow("V2", "nice"),
	}, 2)
	return err
}

// runDemoQuery joins comments to videos whose likes exceed the mean, and
// prints the plan before and after execution.
func runDemoQuery(eng *server.Engine) error {
	req := server.QueryRequest{
		Left:     "videos",
		Right:    "comments",
		LeftKey:  "id",
		RightKey: "id",
		Filter: &server.FilterRequest{
			Column:     "likes",
			Aggregate:  "mean",
			Comparator: ">",
		},
	}

	handle, err := eng.PlanQuery(req)
	if err != nil {
		return err
	}

	logical, err := eng.Explain(handle, "logical")
	if err != nil {
		return err
	}
	fmt.Println(logical)

	result, err := eng.ExecuteQuery(context.Background(), handle)
	if err != nil {
		return err
	}
	for _, row := range result.Rows() {
		fmt.Println(row)
	}

	both, err := eng.Explain(handle, "both")
	if err != nil {
		return err
	}
	fmt.Println(both)
	return nil
}
