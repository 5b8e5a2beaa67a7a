package tmi_test

import (
	"fmt"
	"time"

	"github.com/gotmi/tmi"
	"github.com/gotmi/tmi/transport/tcptls"
)

// chatPrinter joins a channel once the session is up and prints every
// chat message it sees. Embedding BaseEventSink means only the events it
// cares about need methods.
type chatPrinter struct {
	tmi.BaseEventSink
	engine  *tmi.Engine
	channel string
	done    chan struct{}
}

func (p *chatPrinter) OnLoggedIn() {
	p.engine.Join(p.channel)
}

func (p *chatPrinter) OnMessage(m tmi.Message) {
	fmt.Printf("<%s> %s\n", m.User, m.Content)
}

func (p *chatPrinter) OnLoggedOut() {
	close(p.done)
}

func Example() {
	printer := &chatPrinter{channel: "sodapoppin", done: make(chan struct{})}

	engine := tmi.NewEngine(tmi.Config{
		TransportFactory: func() tmi.Transport { return tcptls.New("") },
		Now:              tmi.TimeSourceFunc(time.Now),
	}, printer)
	defer engine.Close()
	printer.engine = engine

	// anonymous sessions can read any channel's chat without an OAuth
	// token; use LogIn to send messages too.
	engine.LogInAnonymously()

	<-printer.done
}

func Example_authenticated() {
	sink := &chatPrinter{channel: "mychannel", done: make(chan struct{})}

	engine := tmi.NewEngine(tmi.Config{
		TransportFactory: func() tmi.Transport { return tcptls.New("") },
		Now:              tmi.TimeSourceFunc(time.Now),
	}, sink)
	defer engine.Close()
	sink.engine = engine

	engine.LogIn("mybotnick", "my0authtoken")
	engine.SendMessage("mychannel", "HeyGuys")

	time.Sleep(time.Minute)
	engine.LogOut("bye")
	<-sink.done
}
