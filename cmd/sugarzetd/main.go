// Copyright 2024 Kelvin Clement Mwinuka
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sugarzet/sugarzet/internal/aggregate"
	"github.com/sugarzet/sugarzet/internal/config"
	"github.com/sugarzet/sugarzet/internal/keyspace"
	"github.com/sugarzet/sugarzet/internal/proto"
	"github.com/sugarzet/sugarzet/internal/zcommands"
	"github.com/sugarzet/sugarzet/internal/zset"
)

var connID atomic.Uint64

func main() {
	conf, err := config.GetConfig()
	if err != nil {
		log.Fatal(err)
	}

	// Every command handler builds new sets through these package-level
	// hooks; overriding them here is the only place the configured packed
	// thresholds need to be threaded through.
	zcommands.NewSet = func() *zset.SortedSet {
		return zset.NewWithThresholds(conf.MaxPackedEntries, conf.MaxPackedMemberLen)
	}
	aggregate.NewSet = zcommands.NewSet

	store := keyspace.NewStore(conf.NumShards)
	defer store.Close()

	cancelCh := make(chan os.Signal, 1)
	signal.Notify(cancelCh, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	listenConfig := net.ListenConfig{KeepAlive: 200 * time.Millisecond}
	listener, err := listenConfig.Listen(context.Background(), "tcp", fmt.Sprintf("%s:%d", conf.BindAddr, conf.Port))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("sugarzetd listening on %s:%d with %d shards\n", conf.BindAddr, conf.Port, conf.NumShards)

	go acceptLoop(listener, store)

	<-cancelCh
	listener.Close()
}

func acceptLoop(listener net.Listener, store *keyspace.Store) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		go handleConnection(conn, store)
	}
}

func handleConnection(conn net.Conn, store *keyspace.Store) {
	defer conn.Close()

	connRW := bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn))
	cid := connID.Add(1)

	for {
		message, err := proto.ReadMessage(connRW)
		if err != nil {
			if err != io.EOF {
				log.Printf("conn %d: %v", cid, err)
			}
			return
		}

		cmd, err := proto.Decode(message)
		if err != nil || len(cmd) == 0 {
			connRW.Write(proto.Err("invalid request"))
			connRW.Flush()
			continue
		}

		connRW.Write(zcommands.Execute(store, cmd))
		connRW.Flush()
	}
}
