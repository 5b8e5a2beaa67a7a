/*
Package tmidebug contains helper functions that are useful while writing
a Twitch chat client.
*/
package tmidebug

import (
	"io"

	"github.com/gotmi/tmi"
)

// WriteTo returns a new tmi.Transport that copies all sends/receives for
// t to w. Sends and receives are prefixed with outPrefix and inPrefix
// respectively. This is mainly useful while developing a bot, e.g. for
// writing to os.Stdout or a file.
//
// Unlike the engine's diagnostics subscription, this is a raw wire tap:
// the outbound PASS line passes through unredacted, so do not point it
// at anything you would not show your OAuth token to.
func WriteTo(w io.Writer, t tmi.Transport, outPrefix string, inPrefix string) tmi.Transport {
	return &debugTransport{Transport: t, w: w, outPrefix: outPrefix, inPrefix: inPrefix}
}

type debugTransport struct {
	tmi.Transport
	w         io.Writer
	outPrefix string
	inPrefix  string
}

func (dt *debugTransport) SetMessageReceivedSink(fn func(payload []byte)) {
	dt.Transport.SetMessageReceivedSink(func(payload []byte) {
		_, _ = dt.w.Write(append([]byte(dt.inPrefix), payload...))
		fn(payload)
	})
}

func (dt *debugTransport) Send(payload []byte) {
	_, _ = dt.w.Write(append([]byte(dt.outPrefix), payload...))
	dt.Transport.Send(payload)
}
