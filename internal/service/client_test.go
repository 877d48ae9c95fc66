package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"google.golang.org/grpc"

	"github.com/neuroemotive/emotive-core/internal/asset"
	"github.com/neuroemotive/emotive-core/internal/pattern"
	"github.com/neuroemotive/emotive-core/internal/session"
)

// #region mock

// mockInvoker records the invoked method and serves a canned reply through
// the real wire encoding, so every call exercises marshal and unmarshal.
type mockInvoker struct {
	method string
	req    []byte

	reply message
	err   error
}

func (m *mockInvoker) Invoke(_ context.Context, method string, args, reply interface{}, _ ...grpc.CallOption) error {
	m.method = method
	m.req = args.(message).marshal(nil)
	if m.err != nil {
		return m.err
	}
	if m.reply != nil {
		return reply.(message).unmarshal(m.reply.marshal(nil))
	}
	return nil
}

// #endregion mock

// #region constructor-tests

// Dial does not connect eagerly; a bad address surfaces at the first RPC.
func TestDialAndClose(t *testing.T) {
	client, err := Dial("localhost:0")
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewClientWithInvoker(t *testing.T) {
	c := NewClientWithInvoker(&mockInvoker{})
	if c == nil {
		t.Fatal("expected non-nil client")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close without conn: %v", err)
	}
}

// #endregion constructor-tests

// #region session-rpc-tests

func TestClientInitializeSession_Success(t *testing.T) {
	want := wireSession()
	mock := &mockInvoker{reply: &sessionReply{Session: want}}
	c := NewClientWithInvoker(mock)

	got, err := c.InitializeSession(context.Background(), "alice", fill32(0xA1), wireVector(1700000000), []float32{0.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.method != "/emotive.v1.EmotiveLedger/InitializeSession" {
		t.Errorf("unexpected method %q", mock.method)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("session mismatch:\ngot:  %+v\nwant: %+v", got, want)
	}

	var sent initializeSessionRequest
	if err := sent.unmarshal(mock.req); err != nil {
		t.Fatalf("request did not decode: %v", err)
	}
	if sent.Caller != "alice" || sent.SessionID != fill32(0xA1) {
		t.Errorf("unexpected request: %+v", sent)
	}
}

func TestClientInitializeSession_Error(t *testing.T) {
	mock := &mockInvoker{err: errors.New("rpc failed")}
	c := NewClientWithInvoker(mock)

	_, err := c.InitializeSession(context.Background(), "alice", fill32(0xA1), wireVector(0), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, mock.err) {
		t.Errorf("expected wrapped rpc error, got: %v", err)
	}
}

func TestClientRecordPerformance_Success(t *testing.T) {
	sess := wireSession()
	perf := session.PerformanceRecord{
		SessionID: sess.SessionID,
		Timestamp: 1700000700,
		Vector:    wireVector(1700000700),
		Impact:    0.12,
		Boost:     0.66,
		Quality:   0.7,
	}
	mock := &mockInvoker{reply: &recordPerformanceReply{Session: sess, Performance: perf}}
	c := NewClientWithInvoker(mock)

	gotSess, gotPerf, err := c.RecordPerformance(context.Background(), "alice", sess.SessionID, session.Observation{
		Vector:  wireVector(1700000700),
		Quality: 0.7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.method != "/emotive.v1.EmotiveLedger/RecordPerformance" {
		t.Errorf("unexpected method %q", mock.method)
	}
	if !reflect.DeepEqual(gotSess, sess) || !reflect.DeepEqual(gotPerf, perf) {
		t.Errorf("reply mismatch:\nsession: %+v\nperformance: %+v", gotSess, gotPerf)
	}
}

func TestClientAdvanceTrajectory_Error(t *testing.T) {
	mock := &mockInvoker{err: errors.New("advance failed")}
	c := NewClientWithInvoker(mock)

	_, _, err := c.AdvanceTrajectory(context.Background(), "alice", fill32(0xA1), wireVector(0))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, mock.err) {
		t.Errorf("expected wrapped rpc error, got: %v", err)
	}
}

// #endregion session-rpc-tests

// #region asset-rpc-tests

func TestClientMintAsset_Success(t *testing.T) {
	want := wireAsset()
	mock := &mockInvoker{reply: &assetReply{Asset: want}}
	c := NewClientWithInvoker(mock)

	got, err := c.MintAsset(context.Background(), "bob", "col-1", asset.MintInput{
		Fingerprint:  want.Fingerprint,
		Signature:    want.Signature,
		AIConfidence: 0.95,
		Emotion:      want.Emotion,
		URI:          want.URI,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.method != "/emotive.v1.EmotiveLedger/MintAsset" {
		t.Errorf("unexpected method %q", mock.method)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("asset mismatch:\ngot:  %+v\nwant: %+v", got, want)
	}

	var sent mintAssetRequest
	if err := sent.unmarshal(mock.req); err != nil {
		t.Fatalf("request did not decode: %v", err)
	}
	if sent.CollectionID != "col-1" || sent.Input.Fingerprint != want.Fingerprint {
		t.Errorf("unexpected request: %+v", sent)
	}
}

func TestClientTransferAsset_Error(t *testing.T) {
	mock := &mockInvoker{err: errors.New("gate rejected")}
	c := NewClientWithInvoker(mock)

	_, err := c.TransferAsset(context.Background(), "bob", "asset-1", "carol")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, mock.err) {
		t.Errorf("expected wrapped rpc error, got: %v", err)
	}
}

func TestClientAnalyzePatterns_Success(t *testing.T) {
	want := pattern.Analysis{
		AverageValence:    0.7,
		AverageArousal:    0.6,
		AverageDominance:  0.55,
		OverallConfidence: 0.9,
		Stability:         0.48,
		Pattern:           pattern.StablePositive,
	}
	mock := &mockInvoker{reply: &analysisReply{Analysis: want}}
	c := NewClientWithInvoker(mock)

	got, err := c.AnalyzePatterns(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.method != "/emotive.v1.EmotiveLedger/AnalyzePatterns" {
		t.Errorf("unexpected method %q", mock.method)
	}
	if got != want {
		t.Errorf("analysis mismatch:\ngot:  %+v\nwant: %+v", got, want)
	}

	var sent analyzePatternsRequest
	if err := sent.unmarshal(mock.req); err != nil {
		t.Fatalf("request did not decode: %v", err)
	}
	if !reflect.DeepEqual(sent.AssetIDs, []string{"a", "b"}) {
		t.Errorf("unexpected asset ids: %v", sent.AssetIDs)
	}
}

// #endregion asset-rpc-tests

// #region reputation-rpc-tests

func TestClientGetReputation_Success(t *testing.T) {
	mock := &mockInvoker{reply: &reputationReply{}}
	c := NewClientWithInvoker(mock)

	if _, err := c.GetReputation(context.Background(), "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.method != "/emotive.v1.EmotiveLedger/GetReputation" {
		t.Errorf("unexpected method %q", mock.method)
	}
}

// #endregion reputation-rpc-tests
