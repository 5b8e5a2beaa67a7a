package tmi

// Outbound line constructors. Each returns a single IRC line without its
// trailing CRLF; the engine appends the line terminator when it hands the
// bytes to the transport.

// joinLine constructs a channel join command.
// channel is given without the leading '#'.
func joinLine(channel string) string {
	return CmdJoin + " #" + channel
}

// partLine constructs a leave (depart) command for channel.
func partLine(channel string) string {
	return CmdPart + " #" + channel
}

// privmsgLine constructs a chat message to a channel.
func privmsgLine(channel, message string) string {
	return CmdPrivmsg + " #" + channel + " :" + message
}

// whisperLine constructs a whisper to nickname.
//
// Twitch has no WHISPER command for clients to send; whispers go out as a
// ".w" command addressed to the virtual #jtv channel.
func whisperLine(nickname, message string) string {
	return CmdPrivmsg + " #jtv :.w " + nickname + " " + message
}

// quitLine constructs a command that will cause the server to terminate
// the client's connection, optionally displaying farewell to clients
// configured to show quit messages.
func quitLine(farewell string) string {
	if farewell == "" {
		return CmdQuit
	}
	return CmdQuit + " :" + farewell
}

// pongLine builds the reply to a PING from the connection. The reply
// message must be the same as the original PING message.
func pongLine(reply string) string {
	return CmdPong + " :" + reply
}

// nickLine constructs the nickname registration command.
func nickLine(name string) string {
	return CmdNick + " " + name
}

// passLine constructs the connection password command. Twitch requires
// the literal "oauth:" prefix on the token.
func passLine(token string) string {
	return CmdPass + " oauth:" + token
}

// capLSLine requests a list of the capabilities supported by the server,
// using capability negotiation protocol version 3.2.
func capLSLine() string {
	return CmdCap + " LS 302"
}

// capReqLine requests the three Twitch capabilities be enabled for the
// client's connection.
func capReqLine() string {
	return CmdCap + " REQ :" + CapCommands + " " + CapMembership + " " + CapTags
}

// capEndLine ends the capability negotiation.
func capEndLine() string {
	return CmdCap + " END"
}
