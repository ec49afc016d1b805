package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bigWhiteXie/pipeconn/redis/conn"
	"github.com/bigWhiteXie/pipeconn/redis/resp"
)

var (
	connectHost string
	connectPort int
	connectPass string
	connectDB   int
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Start an interactive REPL against a pipeconn connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(connectHost, connectPort, connectPass, connectDB)
	},
}

func init() {
	connectCmd.Flags().StringVar(&connectHost, "host", "127.0.0.1", "server host")
	connectCmd.Flags().IntVar(&connectPort, "port", 6379, "server port")
	connectCmd.Flags().StringVar(&connectPass, "password", "", "AUTH password")
	connectCmd.Flags().IntVar(&connectDB, "db", 0, "SELECT database index")
	rootCmd.AddCommand(connectCmd)
}

func runREPL(host string, port int, password string, db int) error {
	c := conn.New(conn.Options{Host: host, Port: port, Password: password, DB: db})
	c.Start()
	defer c.Close(context.Background())

	fmt.Printf("connecting to %s:%d\n", host, port)
	stdin := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		line, err := stdin.ReadString('\n')
		if err != nil {
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			fmt.Println("bye")
			return nil
		}

		fields := strings.Fields(line)
		q := resp.NewQuery(fields...)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		reply, err := c.AwaitResult(ctx, q)
		cancel()
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		printReply(reply)
	}
}

func printReply(r resp.Reply) {
	switch v := r.(type) {
	case *resp.ErrorReply:
		fmt.Println("(error)", v.Message)
	case *resp.SimpleStringReply:
		fmt.Println(v.Status)
	case *resp.IntegerReply:
		fmt.Println(v.Value)
	case *resp.BulkReply:
		if v.Value == nil {
			fmt.Println("(nil)")
			return
		}
		fmt.Println(string(v.Value))
	case *resp.ArrayReply:
		if v.Items == nil {
			fmt.Println("(nil)")
			return
		}
		for _, item := range v.Items {
			printReply(item)
		}
	default:
		fmt.Printf("%v\n", r)
	}
}
