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
replifo-node simulates a small cluster of replicated FIFO queues inside
one process: N engines with full mutual peer knowledge, each driven by
a worker goroutine, cross-applying every produced event to every other
node as a stand-in for a real transport. On shutdown every node's log
is flushed to its own JSONL sink file.

Usage:

	replifo-node -nodes 3 -sink cluster -log-level info
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/sync/errgroup"

	"replifo/internal/config"
	"replifo/internal/logging"
	"replifo/internal/replication"
	"replifo/pkg/cli"
)

const version = "0.1.0"

func main() {
	nodes := flag.Int("nodes", 3, "number of simulated nodes")
	sinkBase := flag.String("sink", "replifo", "base path for JSONL sink files (<sink>.<node-id>.jsonl)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	logJSON := flag.Bool("log-json", false, "emit structured JSON logs instead of text")
	itemsPerNode := flag.Int("items", 5, "number of items each node enqueues before dequeuing")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("replifo-node %s\n", version)
		return
	}

	logging.SetJSONMode(*logJSON)
	logging.SetGlobalLevel(logging.ParseLevel(*logLevel))
	log := logging.NewLogger("replifo-node")

	if *nodes < 1 {
		cli.PrintError("-nodes must be at least 1")
		os.Exit(1)
	}

	nodeIDs := make([]string, *nodes)
	for i := range nodeIDs {
		nodeIDs[i] = "node-" + strconv.Itoa(i)
	}

	cluster := newCluster(nodeIDs, *sinkBase, *logLevel, *logJSON)
	if cluster == nil {
		os.Exit(1)
	}

	// A spinner only makes sense against a terminal; piped output (e.g.
	// captured by CI) gets the plain success/error lines below instead.
	var spinner *cli.Spinner
	if cli.IsOutputInteractive() {
		spinner = cli.NewSpinner(fmt.Sprintf("running %d node(s), %d items each", *nodes, *itemsPerNode))
		spinner.Start()
	}

	g, _ := errgroup.WithContext(context.Background())
	for _, id := range nodeIDs {
		id := id
		g.Go(func() error {
			return cluster.runWorker(id, *itemsPerNode, log)
		})
	}

	if err := g.Wait(); err != nil {
		if spinner != nil {
			spinner.StopWithError(fmt.Sprintf("worker failed: %v", err))
		} else {
			cli.PrintError("worker failed: %v", err)
		}
		os.Exit(1)
	}
	if spinner != nil {
		spinner.StopWithSuccess("all workers finished")
	}

	for _, id := range nodeIDs {
		path := *sinkBase + "." + id + ".jsonl"
		engine := cluster.engines[id]
		if err := engine.FlushSink(path); err != nil {
			cli.ErrSinkWriteFailed(path, err).Print()
			os.Exit(1)
		}
		length, _ := engine.QueueState()
		cli.PrintSuccess("%s: queue length %d, clock %d, flushed to %s", id, length, engine.Clock(), path)
	}
}

func otherNodes(all []string, self string) []string {
	peers := make([]string, 0, len(all)-1)
	for _, id := range all {
		if id != self {
			peers = append(peers, id)
		}
	}
	return peers
}

func newCluster(nodeIDs []string, sinkBase, logLevel string, logJSON bool) *cluster {
	engines := make(map[string]*replication.ReplicationEngine[string], len(nodeIDs))
	for _, id := range nodeIDs {
		cfg := config.NodeConfig{
			NodeID:   id,
			Peers:    otherNodes(nodeIDs, id),
			SinkPath: sinkBase,
			LogLevel: logLevel,
			LogJSON:  logJSON,
		}
		if err := cfg.Validate(); err != nil {
			cli.ErrInvalidConfig(id, err).Print()
			return nil
		}
		engines[id] = replication.NewEngine[string](cfg)
	}
	return &cluster{nodeIDs: nodeIDs, engines: engines}
}
