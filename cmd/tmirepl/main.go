// Command tmirepl connects to a Twitch chat channel, prints every typed
// event as indented JSON, and sends each line read from stdin as a chat
// message. It is a development aid for package tmi, not a bot framework.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gotmi/tmi"
	"github.com/gotmi/tmi/transport/tcptls"
	"github.com/gotmi/tmi/transport/ws"
)

var flagNick = flag.String("nick", "", "The login nickname; empty means anonymous")
var flagToken = flag.String("token", "", "The OAuth token, without the oauth: prefix")
var flagChannel = flag.String("channel", "", "The channel to join, without the leading #")
var flagWS = flag.Bool("ws", false, "Connect over WebSocket instead of TCP+TLS")
var flagTrace = flag.Bool("trace", false, "Print raw wire traffic to stderr")

func main() {
	flag.Parse()
	if *flagChannel == "" {
		fmt.Fprintln(os.Stderr, "tmirepl: -channel is required")
		os.Exit(2)
	}

	factory := func() tmi.Transport { return tcptls.New("") }
	if *flagWS {
		factory = func() tmi.Transport { return ws.New("") }
	}

	sink := &dumpSink{loggedOut: make(chan struct{})}
	engine := tmi.NewEngine(tmi.Config{
		TransportFactory: factory,
		Now:              tmi.TimeSourceFunc(time.Now),
	}, sink)
	defer engine.Close()

	if *flagTrace {
		unsubscribe := engine.SubscribeToDiagnostics(func(level int, line string) {
			log.Println(line)
		}, 0)
		defer unsubscribe()
	}

	if *flagNick == "" {
		engine.LogInAnonymously()
	} else {
		engine.LogIn(*flagNick, *flagToken)
	}
	engine.Join(*flagChannel)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				engine.SendMessage(*flagChannel, line)
			}
		}
	}()

	select {
	case <-interrupt:
		engine.LogOut("closing link")
		select {
		case <-sink.loggedOut:
		case <-time.After(3 * time.Second):
		}
	case <-sink.loggedOut:
		// the server dropped us; the repl does not reconnect.
	}
}

// dumpSink prints every event as indented JSON on stdout.
type dumpSink struct {
	tmi.BaseEventSink
	loggedOut chan struct{}
}

func (s *dumpSink) dump(name string, v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Println("tmirepl:", err)
		return
	}
	fmt.Printf("%s %s\n", name, b)
}

func (s *dumpSink) OnLoggedIn()  { fmt.Println("LoggedIn") }
func (s *dumpSink) OnLoggedOut() { fmt.Println("LoggedOut"); close(s.loggedOut) }
func (s *dumpSink) OnDoom()      { fmt.Println("Doom: server reconnect imminent") }

func (s *dumpSink) OnJoin(e tmi.Join)                     { s.dump("Join", e) }
func (s *dumpSink) OnLeave(e tmi.Leave)                   { s.dump("Leave", e) }
func (s *dumpSink) OnMessage(e tmi.Message)               { s.dump("Message", e) }
func (s *dumpSink) OnPrivateMessage(e tmi.PrivateMessage) { s.dump("PrivateMessage", e) }
func (s *dumpSink) OnWhisper(e tmi.Whisper)               { s.dump("Whisper", e) }
func (s *dumpSink) OnNotice(e tmi.Notice)                 { s.dump("Notice", e) }
func (s *dumpSink) OnHost(e tmi.Host)                     { s.dump("Host", e) }
func (s *dumpSink) OnRoomModeChange(e tmi.RoomModeChange) { s.dump("RoomModeChange", e) }
func (s *dumpSink) OnClear(e tmi.Clear)                   { s.dump("Clear", e) }
func (s *dumpSink) OnMod(e tmi.Mod)                       { s.dump("Mod", e) }
func (s *dumpSink) OnUserState(e tmi.UserState)           { s.dump("UserState", e) }
func (s *dumpSink) OnSub(e tmi.SubEvent)                  { s.dump("Sub", e) }
func (s *dumpSink) OnRaid(e tmi.Raid)                     { s.dump("Raid", e) }
func (s *dumpSink) OnRitual(e tmi.Ritual)                 { s.dump("Ritual", e) }
