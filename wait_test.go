package green

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryRoundTrip(t *testing.T) {
	r := require.New(t)
	t.Cleanup(func() { SetWaitCallback(nil) })

	r.Nil(WaitCallback())
	r.False(Green())

	called := 0
	SetWaitCallback(func(ctx context.Context, conn Conn) error {
		called++
		return doneWait(ctx, conn)
	})
	r.True(Green())
	r.NotNil(WaitCallback())

	conn := &fakeConn{result: "via registry"}
	res, err := Exec(context.Background(), conn, "SELECT 1")
	r.NoError(err)
	r.Equal(Result("via registry"), res)
	r.Equal(1, called)

	SetWaitCallback(nil)
	r.Nil(WaitCallback())
	r.False(Green())
}

func TestPinningAcrossReplacement(t *testing.T) {
	r := require.New(t)

	var order []string
	e := NewExecutor(nil)

	second := func(ctx context.Context, conn Conn) error {
		order = append(order, "second")
		return doneWait(ctx, conn)
	}
	// Replaces the registered callback while its own invocation is
	// still in flight; the in-flight wait must complete as itself.
	first := func(ctx context.Context, conn Conn) error {
		e.SetWaitFunc(second)
		order = append(order, "first")
		return doneWait(ctx, conn)
	}
	e.SetWaitFunc(first)

	conn := &fakeConn{}
	_, err := e.Exec(context.Background(), conn, "SELECT 1")
	r.NoError(err)
	_, err = e.Exec(context.Background(), conn, "SELECT 2")
	r.NoError(err)

	r.Equal([]string{"first", "second"}, order)
}

type fakePollConn struct {
	fakeConn
	notReady int // readiness probes to deny before reporting ready
	probes   int
	polls    int
	pollErr  error
}

func (c *fakePollConn) Ready(dir Status) (bool, error) {
	c.probes++
	if c.notReady > 0 {
		c.notReady--
		return false, nil
	}
	return true, nil
}

func (c *fakePollConn) Poll() error {
	c.polls++
	if c.pollErr != nil {
		return c.pollErr
	}
	switch c.state.Status {
	case StatusWrite:
		c.state.Status = StatusRead
	case StatusRead:
		c.state.Status = StatusDone
	}
	return nil
}

func TestSpinWait(t *testing.T) {
	r := require.New(t)

	conn := &fakePollConn{notReady: 3}
	conn.result = "spun"
	e := NewExecutor(SpinWait)

	res, err := e.Exec(context.Background(), conn, "SELECT 1")
	r.NoError(err)
	r.Equal(Result("spun"), res)
	r.Equal(2, conn.polls) // WRITE→READ, READ→DONE
	r.GreaterOrEqual(conn.probes, 5)
}

func TestSpinWaitNotPollable(t *testing.T) {
	r := require.New(t)

	err := SpinWait(context.Background(), &fakeConn{})
	r.ErrorIs(err, ErrNotPollable)
}

func TestSpinWaitContextCanceled(t *testing.T) {
	r := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conn := &fakePollConn{notReady: 1}
	conn.state.Status = StatusWrite
	err := SpinWait(ctx, conn)
	r.ErrorIs(err, context.Canceled)
}
