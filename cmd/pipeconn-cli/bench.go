package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bigWhiteXie/pipeconn/redis/conn"
	"github.com/bigWhiteXie/pipeconn/redis/resp"
)

var (
	benchHost  string
	benchPort  int
	benchCount int
	benchKey   string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Fire N pipelined writes then one AwaitResult read-back",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBench(benchHost, benchPort, benchCount, benchKey)
	},
}

func init() {
	benchCmd.Flags().StringVar(&benchHost, "host", "127.0.0.1", "server host")
	benchCmd.Flags().IntVar(&benchPort, "port", 6379, "server port")
	benchCmd.Flags().IntVar(&benchCount, "count", 1000, "number of pipelined FireAndForget writes")
	benchCmd.Flags().StringVar(&benchKey, "key", "", "counter key (default: a fresh uuid per run)")
	rootCmd.AddCommand(benchCmd)
}

// runBench fires count interleaved FireAndForget INCRs followed by one
// AwaitResult GET, exercising a pipelined write burst against a real
// server.
func runBench(host string, port, count int, key string) error {
	if key == "" {
		key = "pipeconn-bench-" + uuid.NewString()
	}

	c := conn.New(conn.Options{Host: host, Port: port})
	c.Start()
	defer c.Close(context.Background())

	start := time.Now()
	for i := 0; i < count; i++ {
		c.FireAndForget(resp.NewQuery("INCR", key))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	reply, err := c.AwaitResult(ctx, resp.NewQuery("GET", key))
	if err != nil {
		return fmt.Errorf("bench: read-back failed: %w", err)
	}

	elapsed := time.Since(start)
	fmt.Printf("fired %d, read-back %v after %v\n", count, replyString(reply), elapsed)
	return nil
}

func replyString(r resp.Reply) string {
	switch v := r.(type) {
	case *resp.BulkReply:
		if v.Value == nil {
			return "(nil)"
		}
		return string(v.Value)
	case *resp.ErrorReply:
		return "(error) " + v.Message
	default:
		return fmt.Sprintf("%v", r)
	}
}
