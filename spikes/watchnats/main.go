package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/fanout/natsio"
	"github.com/nats-io/nats.go"
)

func main() {
	url := flag.String("url", nats.DefaultURL, "nats server url")
	flag.Parse()

	nc, err := nats.Connect(*url)
	if err != nil {
		log.Fatal(err)
	}
	defer nc.Close()

	// Subscribe
	if _, err := nc.Subscribe(natsio.SubjectPrefix+">", func(m *nats.Msg) {
		msg, err := natsio.Decode(m.Data)
		if err != nil {
			fmt.Printf("subject: %s, undecodable message: %s\n", m.Subject, string(m.Data))
			return
		}
		fmt.Printf("channel: %s, event: %s, data: %s\n", msg.Channel, msg.Event, string(msg.Data))
	}); err != nil {
		log.Fatal(err)
	}

	// Wait for interrupt signal to gracefully exit
	quitCh := make(chan os.Signal, 1)
	signal.Notify(quitCh, os.Interrupt)
	<-quitCh
}
