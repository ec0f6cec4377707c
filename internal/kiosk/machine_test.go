package kiosk

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient counts calls and answers from canned responses.
type fakeClient struct {
	mu sync.Mutex

	statusRes *StatusResponse
	startRes  *StartResponse
	stopRes   *StopResponse
	stopErr   error
	staffOK   bool
	staffErr  error

	stopCalls  int32
	stopDelay  time.Duration
	startCalls int32
}

func (f *fakeClient) Status(ctx context.Context, rfid string) (*StatusResponse, error) {
	if f.statusRes == nil {
		return nil, errors.New("no session")
	}
	return f.statusRes, nil
}

func (f *fakeClient) Start(ctx context.Context, rfid string) (*StartResponse, error) {
	atomic.AddInt32(&f.startCalls, 1)
	if f.startRes == nil {
		return nil, errors.New("start failed")
	}
	return f.startRes, nil
}

func (f *fakeClient) Stop(ctx context.Context, rfid string) (*StopResponse, error) {
	atomic.AddInt32(&f.stopCalls, 1)
	if f.stopDelay > 0 {
		time.Sleep(f.stopDelay)
	}
	return f.stopRes, f.stopErr
}

func (f *fakeClient) CheckStaff(ctx context.Context, rfid string) (bool, error) {
	return f.staffOK, f.staffErr
}

func (f *fakeClient) RecentScans(ctx context.Context, controllerID, limit int) ([]RecentScan, error) {
	return nil, nil
}

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// waitFor polls the machine until the predicate holds or the deadline hits.
func waitFor(t *testing.T, m *Machine, pred func(State) bool) State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s := m.State()
		if pred(s) {
			return s
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not reached, state: %+v", m.State())
	return State{}
}

func TestMachineHappyPath(t *testing.T) {
	points := 72
	client := &fakeClient{
		statusRes: &StatusResponse{SessionStatus: "active"},
		startRes: &StartResponse{
			PartyName:        "Team A",
			SessionMinutes:   10,
			RemainingSeconds: 600,
		},
		stopRes: &StopResponse{PartyName: "Team A", TotalPoints: points},
	}
	m := NewMachine(client, quietLog())
	defer m.Close()
	ctx := context.Background()

	m.Dispatch(ctx, SelectStation{StationID: 1})
	assert.Equal(t, PhaseReady, m.State().Phase)

	m.Dispatch(ctx, ScanTag{Tag: "RFID-7"})
	waitFor(t, m, func(s State) bool { return s.Phase == PhaseActive })
	assert.Equal(t, 600, m.State().Remaining)

	m.Dispatch(ctx, ManualStop{})
	s := waitFor(t, m, func(s State) bool { return s.Phase == PhaseResult })
	require.NotNil(t, s.Result)
	assert.Equal(t, "Team A", s.Result.PartyName)
	require.NotNil(t, s.Result.Points)
	assert.Equal(t, 72, *s.Result.Points)

	m.Dispatch(ctx, StaffScan{Tag: "GUEST-1"})
	waitFor(t, m, func(s State) bool { return s.StaffErr != "" })

	client.staffOK = true
	m.Dispatch(ctx, StaffScan{Tag: "STAFF-1"})
	waitFor(t, m, func(s State) bool { return s.Phase == PhaseReady })
}

func TestMachineStopCalledExactlyOnce(t *testing.T) {
	client := &fakeClient{
		stopRes:   &StopResponse{PartyName: "Team A", TotalPoints: 10},
		stopDelay: 50 * time.Millisecond,
	}
	m := NewMachine(client, quietLog())
	defer m.Close()
	ctx := context.Background()

	m.mu.Lock()
	m.state = State{
		Phase:     PhaseActive,
		StationID: 1,
		Session:   &ActiveSession{PartyName: "Team A", RFIDTag: "RFID-7"},
		Remaining: 1,
	}
	m.mu.Unlock()

	// timeout path and manual path race for the same session
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Dispatch(ctx, Tick{})
			m.Dispatch(ctx, ManualStop{})
		}()
	}
	wg.Wait()

	waitFor(t, m, func(s State) bool { return s.Phase == PhaseResult })
	assert.Equal(t, int32(1), atomic.LoadInt32(&client.stopCalls))
}

func TestMachineRejectedTagStaysReady(t *testing.T) {
	client := &fakeClient{statusRes: &StatusResponse{SessionStatus: "pending"}}
	m := NewMachine(client, quietLog())
	defer m.Close()
	ctx := context.Background()

	m.Dispatch(ctx, SelectStation{StationID: 1})
	m.Dispatch(ctx, ScanTag{Tag: "RFID-7"})

	s := waitFor(t, m, func(s State) bool { return s.Err != "" })
	assert.Equal(t, PhaseReady, s.Phase)
	assert.Contains(t, s.Err, "pending")
	assert.Equal(t, int32(0), atomic.LoadInt32(&client.startCalls))
}

func TestMachineStopFailureReachesResult(t *testing.T) {
	client := &fakeClient{stopErr: errors.New("server returned 500")}
	m := NewMachine(client, quietLog())
	defer m.Close()
	ctx := context.Background()

	m.mu.Lock()
	m.state = State{
		Phase:   PhaseActive,
		Session: &ActiveSession{PartyName: "Team A", RFIDTag: "RFID-7"},
	}
	m.mu.Unlock()

	m.Dispatch(ctx, ManualStop{})
	s := waitFor(t, m, func(s State) bool { return s.Phase == PhaseResult })
	require.NotNil(t, s.Result)
	assert.Nil(t, s.Result.Points)
	assert.Equal(t, "server returned 500", s.Result.Err)
}

func TestMachineOnChange(t *testing.T) {
	m := NewMachine(&fakeClient{}, quietLog())
	defer m.Close()

	var phases []Phase
	var mu sync.Mutex
	m.OnChange = func(s State) {
		mu.Lock()
		phases = append(phases, s.Phase)
		mu.Unlock()
	}
	m.Dispatch(context.Background(), SelectStation{StationID: 1})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, phases, 1)
	assert.Equal(t, PhaseReady, phases[0])
}
