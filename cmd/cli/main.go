package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"fakenode/pkg/client"
	"fakenode/pkg/common"
	"fakenode/pkg/protocol"

	"github.com/spf13/cobra"
)

const Prompt = "fakenode> "

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var serverAddr string

	cmd := &cobra.Command{
		Use:   "fakenode-cli",
		Short: "Interactive client for a fake node",
		RunE: func(cmd *cobra.Command, args []string) error {
			return repl(serverAddr)
		},
	}
	cmd.Flags().StringVar(&serverAddr, "addr", "localhost:60020", "Fake node TCP address")
	return cmd
}

func repl(serverAddr string) error {
	fmt.Printf("fakenode CLI (Target: %s)\n", serverAddr)
	fmt.Println("Connecting...")

	cli, err := client.Dial(serverAddr)
	if err != nil {
		fmt.Println("Tip: Ensure the server is running (e.g. go run ./cmd/server).")
		return fmt.Errorf("connection failed: %w", err)
	}
	defer cli.Close()
	fmt.Println("Connected! Type 'help' for commands.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(Prompt)
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "get":
			handleGet(cli, parts)
		case "scan":
			handleScan(cli, parts)
		case "open":
			handleOpen(cli, parts)
		case "next":
			handleNext(cli, parts)
		case "info":
			handleInfo(cli, parts)
		case "call":
			handleCall(cli, parts)
		case "help":
			printHelp()
		case "exit", "quit":
			fmt.Println("Bye!")
			return nil
		default:
			fmt.Printf("Unknown command: '%s'. Type 'help'.\n", cmd)
		}
	}
}

func handleGet(cli *client.Client, parts []string) {
	if len(parts) < 3 {
		fmt.Println("Usage: get <region> <row>")
		return
	}

	start := time.Now()
	val, err := cli.Get(common.RegionKey(parts[1]), common.RowKey(parts[2]))
	duration := time.Since(start)

	switch {
	case err != nil:
		fmt.Printf("Error: %v\n", err)
	case len(val) == 0:
		fmt.Printf("(empty) (%v)\n", duration)
	default:
		fmt.Printf("\"%s\" (%v)\n", string(val), duration)
	}
}

func handleScan(cli *client.Client, parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: scan <region>")
		return
	}

	start := time.Now()
	results, err := cli.Scan(common.RegionKey(parts[1]))
	duration := time.Since(start)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Found %d results (%v):\n", len(results), duration)
	for i, r := range results {
		if i >= 20 {
			fmt.Printf("... and %d more\n", len(results)-20)
			break
		}
		fmt.Printf("  [%d] %s\n", i, string(r))
	}
}

func handleOpen(cli *client.Client, parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: open <region>")
		return
	}
	id, err := cli.OpenScanner(common.RegionKey(parts[1]), nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("scanner %d\n", id)
}

func handleNext(cli *client.Client, parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: next <scanner_id>")
		return
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		fmt.Println("Error: scanner id must be an integer")
		return
	}
	results, more, err := cli.Next(id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	for _, r := range results {
		fmt.Printf("  %s\n", string(r))
	}
	fmt.Printf("more=%v\n", more)
}

func handleInfo(cli *client.Client, parts []string) {
	region := common.RegionKey(nil)
	if len(parts) > 1 {
		region = common.RegionKey(parts[1])
	}
	name, err := cli.GetRegionInfo(region)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("region %s\n", string(name))
}

func handleCall(cli *client.Client, parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: call <op> [region] [body]")
		return
	}
	op, ok := protocol.OpByName(parts[1])
	if !ok {
		fmt.Printf("Error: unknown op '%s'\n", parts[1])
		return
	}
	var region common.RegionKey
	var body []byte
	if len(parts) > 2 {
		region = common.RegionKey(parts[2])
	}
	if len(parts) > 3 {
		body = []byte(strings.Join(parts[3:], " "))
	}

	start := time.Now()
	resp, err := cli.Call(op, region, body)
	duration := time.Since(start)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("OK %d bytes (%v)\n", len(resp), duration)
}

func printHelp() {
	fmt.Println(`
Commands:
  get <region> <row>          Point lookup
  scan <region>               Open a scanner and read it to the end
  open <region>               Open a scanner, print its id
  next <scanner_id>           Advance a scanner by one result
  info [region]               Region info
  call <op> [region] [body]   Send any other operation (e.g. call flushRegion R)
  exit                        Exit CLI
	`)
}
