/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
replifo-ctl is an interactive REPL for driving a single replication
engine by hand: enqueue and dequeue items, hand it a raw event to
apply, and inspect its queue, log, clock, and reorder buffer.

Usage:

	replifo-ctl -node n1 -peers n2,n3
*/
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"replifo/internal/config"
	"replifo/internal/event"
	"replifo/internal/logging"
	"replifo/internal/replication"
	"replifo/pkg/cli"
)

const version = "0.1.0"

func main() {
	nodeID := flag.String("node", "n1", "this node's identifier")
	peersFlag := flag.String("peers", "", "comma-separated peer node ids")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	logging.SetGlobalLevel(logging.ParseLevel(*logLevel))

	var peers []string
	if strings.TrimSpace(*peersFlag) != "" {
		peers = strings.Split(*peersFlag, ",")
	}

	cfg := config.NodeConfig{NodeID: *nodeID, Peers: peers, LogLevel: *logLevel}
	if err := cfg.Validate(); err != nil {
		cli.ErrInvalidConfig(*nodeID, err).Print()
		return
	}

	engine := replication.NewEngine[string](cfg)
	help := buildHelpFormatter()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          fmt.Sprintf("%s> ", *nodeID),
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		cli.PrintError("failed to start readline: %v", err)
		return
	}
	defer rl.Close()

	// Piped input has no one to read a banner or a confirmation prompt,
	// so only print/ask when stdin is actually a terminal.
	interactive := cli.IsInteractive()
	if interactive {
		cli.Box("replifo-ctl", fmt.Sprintf("node:  %s\npeers: %v", *nodeID, peers))
		fmt.Println(cli.FullSeparator())
		fmt.Println("type help for the command list")
	}

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return
			}
			cli.PrintError("read error: %v", err)
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !dispatch(engine, help, interactive, line) {
			return
		}
	}
}

func buildHelpFormatter() *cli.HelpFormatter {
	h := cli.NewHelpFormatter("replifo-ctl", version)
	h.AddCommand(cli.Command{
		Name:        "enqueue",
		Description: "enqueue an item locally and produce an Enqueue event",
		Usage:       "enqueue <item>",
		Examples:    []cli.Example{{Description: "enqueue the string order-42", Command: "enqueue order-42"}},
	})
	h.AddCommand(cli.Command{
		Name:        "dequeue",
		Description: "dequeue the head item locally and produce a Dequeue event",
		Usage:       "dequeue",
	})
	h.AddCommand(cli.Command{
		Name:        "apply",
		Description: "apply a raw JSON event as if received from a peer",
		Usage:       "apply <json-event>",
		Examples: []cli.Example{{
			Description: "apply an event produced by another node",
			Command:     `apply {"global_id":1,"origin_node":"n2","op":"Enqueue","item":"x","clock":{"n2":1}}`,
		}},
	})
	h.AddCommand(cli.Command{Name: "state", Description: "print queue length, this node's own clock counter, and pending buffer size"})
	h.AddCommand(cli.Command{Name: "logs", Description: "print this node's append-only operation log"})
	h.AddCommand(cli.Command{Name: "clock", Description: "print this node's full vector clock"})
	h.AddCommand(cli.Command{Name: "pending", Description: "print the reorder buffer's current size"})
	h.AddCommand(cli.Command{Name: "quit", Aliases: []string{"exit"}, Description: "leave the REPL"})
	return h
}

func dispatch(engine *replication.ReplicationEngine[string], help *cli.HelpFormatter, interactive bool, line string) bool {
	fields := strings.SplitN(line, " ", 2)
	cmd := fields[0]
	var arg string
	if len(fields) > 1 {
		arg = strings.TrimSpace(fields[1])
	}

	switch cmd {
	case "quit", "exit":
		if interactive && engine.PendingEventsCount() > 0 {
			return !cli.Confirm(fmt.Sprintf("%d event(s) are still buffered awaiting their causal predecessor.", engine.PendingEventsCount()))
		}
		return false
	case "help":
		if arg == "" {
			help.PrintUsage()
		} else {
			help.PrintCommandHelp(arg)
		}
	case "enqueue":
		if arg == "" {
			cli.ErrMissingArgument("item", "enqueue <item>").Print()
			break
		}
		ev := engine.Enqueue(arg)
		cli.PrintSuccess("enqueued %q (global_id=%d)", arg, ev.GlobalID)
	case "dequeue":
		item, ok, ev := engine.Dequeue()
		if !ok {
			cli.PrintWarning("queue is empty")
			break
		}
		cli.PrintSuccess("dequeued %q (global_id=%d)", item, ev.GlobalID)
	case "apply":
		applyRawEvent(engine, arg)
	case "state":
		printState(engine)
	case "logs":
		printLogs(engine)
	case "clock":
		printClock(engine)
	case "pending":
		fmt.Printf("pending events: %d\n", engine.PendingEventsCount())
	default:
		cli.ErrUnknownCommand(cmd).Print()
	}
	return true
}

func applyRawEvent(engine *replication.ReplicationEngine[string], raw string) {
	if raw == "" {
		cli.ErrMissingArgument("json-event", "apply <json-event>").Print()
		return
	}
	var ev event.Event[string]
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		cli.ErrInvalidEvent(raw, err).Print()
		return
	}
	if engine.ApplyRemoteEvent(ev) {
		cli.PrintSuccess("applied event from %s (global_id=%d)", ev.OriginNode, ev.GlobalID)
	} else {
		cli.PrintWarning("event from %s buffered or dropped as a duplicate", ev.OriginNode)
	}
}

func printState(engine *replication.ReplicationEngine[string]) {
	length, empty := engine.QueueState()
	table := cli.NewTable("FIELD", "VALUE")
	table.AddRow("node", engine.NodeID())
	table.AddRow("queue_len", strconv.Itoa(length))
	table.AddRow("queue_empty", strconv.FormatBool(empty))
	table.AddRow("clock", strconv.FormatUint(engine.Clock(), 10))
	table.AddRow("pending", strconv.Itoa(engine.PendingEventsCount()))
	table.Print()
}

func printLogs(engine *replication.ReplicationEngine[string]) {
	table := cli.NewTable("ID", "OP", "STATE", "ITEM")
	for _, entry := range engine.Logs() {
		item := ""
		if entry.Item != nil {
			item = *entry.Item
		}
		table.AddRow(
			strconv.FormatUint(entry.LocalLogID, 10),
			entry.Op.String(),
			entry.State.String(),
			item,
		)
	}
	table.Print()
}

func printClock(engine *replication.ReplicationEngine[string]) {
	snap := engine.ClockSnapshot()
	table := cli.NewTable("NODE", "COUNTER")
	for node, counter := range snap {
		table.AddRow(node, strconv.FormatUint(counter, 10))
	}
	table.Print()
}
