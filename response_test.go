package basex

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseStreamsLargeResult(t *testing.T) {
	payload := ""
	for i := 0; i < 1000; i++ {
		payload += "<item/>"
	}
	q, _ := openTestQuery(t, payload+"\x00Query executed.\x00\x00")

	resp, err := q.Execute(context.Background())
	require.NoError(t, err)

	result, err := io.ReadAll(resp)
	require.NoError(t, err)
	assert.Equal(t, payload, string(result))
	assert.Equal(t, "Query executed.", resp.Info())
	require.NoError(t, resp.Close())
}

func TestResponseUnescapesPayload(t *testing.T) {
	q, _ := openTestQuery(t, "a\xff\x00b\xff\xffc\x00\x00\x00")

	result, err := q.ExecuteString(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a\x00b\xffc", result)
}

func TestResponseCloseDrainsUnreadPayload(t *testing.T) {
	q, mock := openTestQuery(t, "0123456789\x00\x00\x00"+"\x00\x00")
	ctx := context.Background()

	resp, err := q.Execute(ctx)
	require.NoError(t, err)

	// read a prefix only, then drop the stream
	buf := make([]byte, 4)
	n, err := resp.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "0123", string(buf[:n]))
	require.NoError(t, resp.Close())

	// the connection is back in sync: close exchanges cleanly
	require.NoError(t, q.Close(ctx))
	assert.Equal(t, "\x051\x00\x021\x00", mock.wrote.String())
}

func TestResponseAutoDrainBeforeNextOperation(t *testing.T) {
	q, _ := openTestQuery(t, "0123456789\x00\x00\x00"+"true\x00\x00")
	ctx := context.Background()

	_, err := q.Execute(ctx)
	require.NoError(t, err)

	// issuing the next operation without touching the stream drains it
	updating, err := q.Updating(ctx)
	require.NoError(t, err)
	assert.True(t, updating)
}

func TestResponseErrorCarriesInfoBeforeStatus(t *testing.T) {
	q, _ := openTestQuery(t, "partial\x00[FORG0001] Invalid value.\x00\x01")

	resp, err := q.Execute(context.Background())
	require.NoError(t, err)

	_, err = io.ReadAll(resp)
	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "[FORG0001] Invalid value.", queryErr.Info)

	// Close reports the same failure
	assert.ErrorAs(t, resp.Close(), &queryErr)
}

func TestResponseTransportFailurePoisonsConnection(t *testing.T) {
	q, _ := openTestQuery(t, "no terminator")

	resp, err := q.Execute(context.Background())
	require.NoError(t, err)

	_, err = io.ReadAll(resp)
	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.True(t, q.conn.isBad())
}
