package protocol

// Standard mode command codes. Commands without a code here are sent as
// plain text followed by the terminator.
const (
	CmdQuery   = 0x00
	CmdCreate  = 0x08
	CmdAdd     = 0x09
	CmdReplace = 0x0C
	CmdStore   = 0x0D
)

// Query mode command codes, scoped to an open query session id.
const (
	QueryClose    = 0x02
	QueryBind     = 0x03
	QueryResults  = 0x04
	QueryExecute  = 0x05
	QueryInfo     = 0x06
	QueryOptions  = 0x07
	QueryContext  = 0x0E
	QueryUpdating = 0x1E
	QueryFull     = 0x1F
)

// Status byte terminating every server reply.
const (
	StatusOK    = 0x00
	StatusError = 0x01
)

const (
	// Terminator delimits strings and result payloads on the wire.
	Terminator = 0x00
	// Escape prefixes any payload byte that collides with Terminator or
	// with Escape itself.
	Escape = 0xFF
)
