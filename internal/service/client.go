package service

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/neuroemotive/emotive-core/internal/asset"
	"github.com/neuroemotive/emotive-core/internal/emotion"
	"github.com/neuroemotive/emotive-core/internal/pattern"
	"github.com/neuroemotive/emotive-core/internal/reputation"
	"github.com/neuroemotive/emotive-core/internal/session"
	"github.com/neuroemotive/emotive-core/internal/trajectory"
)

// #region client-struct

// Invoker is the slice of grpc.ClientConn the client needs. Tests inject
// fakes; Dial installs the real connection.
type Invoker interface {
	Invoke(ctx context.Context, method string, args, reply interface{}, opts ...grpc.CallOption) error
}

// Client is a typed client for the emotive ledger service.
type Client struct {
	conn   *grpc.ClientConn
	invoke Invoker
}

// #endregion client-struct

// #region constructor

// Dial connects to an emotived daemon.
func Dial(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, invoke: conn}, nil
}

// NewClientWithInvoker creates a Client over an injected transport.
// Used for testing without a real gRPC connection.
func NewClientWithInvoker(inv Invoker) *Client {
	return &Client{invoke: inv}
}

// #endregion constructor

// #region close

// Close shuts down the gRPC connection, if the client owns one.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

func methodName(m string) string {
	return "/" + ServiceName + "/" + m
}

// #region session-rpcs

// InitializeSession creates a session record for the caller.
func (c *Client) InitializeSession(ctx context.Context, caller string, id [32]byte, initial emotion.Vector, params []float32) (session.Session, error) {
	req := &initializeSessionRequest{Caller: caller, SessionID: id, Initial: initial, Params: params}
	var reply sessionReply
	if err := c.invoke.Invoke(ctx, methodName("InitializeSession"), req, &reply); err != nil {
		return session.Session{}, fmt.Errorf("initialize session rpc: %w", err)
	}
	return reply.Session, nil
}

// RecordPerformance applies one observation to the caller's session.
func (c *Client) RecordPerformance(ctx context.Context, caller string, id [32]byte, obs session.Observation) (session.Session, session.PerformanceRecord, error) {
	req := &recordPerformanceRequest{Caller: caller, SessionID: id, Observation: obs}
	var reply recordPerformanceReply
	if err := c.invoke.Invoke(ctx, methodName("RecordPerformance"), req, &reply); err != nil {
		return session.Session{}, session.PerformanceRecord{}, fmt.Errorf("record performance rpc: %w", err)
	}
	return reply.Session, reply.Performance, nil
}

// AdvanceTrajectory rolls the session's vector into its history and installs
// next as the current state.
func (c *Client) AdvanceTrajectory(ctx context.Context, caller string, id [32]byte, next emotion.Vector) (session.Session, trajectory.Trajectory, error) {
	req := &advanceTrajectoryRequest{Caller: caller, SessionID: id, Next: next}
	var reply advanceTrajectoryReply
	if err := c.invoke.Invoke(ctx, methodName("AdvanceTrajectory"), req, &reply); err != nil {
		return session.Session{}, trajectory.Trajectory{}, fmt.Errorf("advance trajectory rpc: %w", err)
	}
	return reply.Session, reply.Trajectory, nil
}

// CompressState refreshes the session's content digest.
func (c *Client) CompressState(ctx context.Context, caller string, id [32]byte) (session.Session, error) {
	req := &compressStateRequest{Caller: caller, SessionID: id}
	var reply sessionReply
	if err := c.invoke.Invoke(ctx, methodName("CompressState"), req, &reply); err != nil {
		return session.Session{}, fmt.Errorf("compress state rpc: %w", err)
	}
	return reply.Session, nil
}

// SetBridgeStatus overwrites the session's cross-chain bookkeeping.
func (c *Client) SetBridgeStatus(ctx context.Context, caller string, id [32]byte, info session.BridgeInfo) (session.Session, error) {
	req := &setBridgeStatusRequest{Caller: caller, SessionID: id, Bridge: info}
	var reply sessionReply
	if err := c.invoke.Invoke(ctx, methodName("SetBridgeStatus"), req, &reply); err != nil {
		return session.Session{}, fmt.Errorf("set bridge status rpc: %w", err)
	}
	return reply.Session, nil
}

// GetSession loads a session by ID.
func (c *Client) GetSession(ctx context.Context, id [32]byte) (session.Session, error) {
	req := &getSessionRequest{SessionID: id}
	var reply sessionReply
	if err := c.invoke.Invoke(ctx, methodName("GetSession"), req, &reply); err != nil {
		return session.Session{}, fmt.Errorf("get session rpc: %w", err)
	}
	return reply.Session, nil
}

// #endregion session-rpcs

// #region reputation-rpcs

// UpdateReputation folds a session outcome into the caller's creator record.
func (c *Client) UpdateReputation(ctx context.Context, caller string, id [32]byte, performance float32) (reputation.Record, error) {
	req := &updateReputationRequest{Caller: caller, SessionID: id, Performance: performance}
	var reply reputationReply
	if err := c.invoke.Invoke(ctx, methodName("UpdateReputation"), req, &reply); err != nil {
		return reputation.Record{}, fmt.Errorf("update reputation rpc: %w", err)
	}
	return reply.Record, nil
}

// GetReputation loads a creator's reputation record.
func (c *Client) GetReputation(ctx context.Context, creator string) (reputation.Record, error) {
	req := &getReputationRequest{Creator: creator}
	var reply reputationReply
	if err := c.invoke.Invoke(ctx, methodName("GetReputation"), req, &reply); err != nil {
		return reputation.Record{}, fmt.Errorf("get reputation rpc: %w", err)
	}
	return reply.Record, nil
}

// #endregion reputation-rpcs

// #region asset-rpcs

// InitializeCollection creates an empty asset collection.
func (c *Client) InitializeCollection(ctx context.Context, authority, name, symbol, uri string) (asset.Collection, error) {
	req := &initializeCollectionRequest{Authority: authority, Name: name, Symbol: symbol, URI: uri}
	var reply collectionReply
	if err := c.invoke.Invoke(ctx, methodName("InitializeCollection"), req, &reply); err != nil {
		return asset.Collection{}, fmt.Errorf("initialize collection rpc: %w", err)
	}
	return reply.Collection, nil
}

// MintAsset mints a fingerprinted asset into the collection.
func (c *Client) MintAsset(ctx context.Context, caller, collectionID string, in asset.MintInput) (asset.Asset, error) {
	req := &mintAssetRequest{Caller: caller, CollectionID: collectionID, Input: in}
	var reply assetReply
	if err := c.invoke.Invoke(ctx, methodName("MintAsset"), req, &reply); err != nil {
		return asset.Asset{}, fmt.Errorf("mint asset rpc: %w", err)
	}
	return reply.Asset, nil
}

// UpdateAssetEmotion refreshes an owned asset's emotional state.
func (c *Client) UpdateAssetEmotion(ctx context.Context, caller, assetID string, vec emotion.Vector, sig [64]byte, confidence float32) (asset.Asset, error) {
	req := &updateAssetEmotionRequest{Caller: caller, AssetID: assetID, Emotion: vec, Signature: sig, AIConfidence: confidence}
	var reply assetReply
	if err := c.invoke.Invoke(ctx, methodName("UpdateAssetEmotion"), req, &reply); err != nil {
		return asset.Asset{}, fmt.Errorf("update asset emotion rpc: %w", err)
	}
	return reply.Asset, nil
}

// TransferAsset moves ownership of an asset to newOwner.
func (c *Client) TransferAsset(ctx context.Context, caller, assetID, newOwner string) (asset.Asset, error) {
	req := &transferAssetRequest{Caller: caller, AssetID: assetID, NewOwner: newOwner}
	var reply assetReply
	if err := c.invoke.Invoke(ctx, methodName("TransferAsset"), req, &reply); err != nil {
		return asset.Asset{}, fmt.Errorf("transfer asset rpc: %w", err)
	}
	return reply.Asset, nil
}

// AnalyzePatterns aggregates the named assets' emotional states.
func (c *Client) AnalyzePatterns(ctx context.Context, assetIDs []string) (pattern.Analysis, error) {
	req := &analyzePatternsRequest{AssetIDs: assetIDs}
	var reply analysisReply
	if err := c.invoke.Invoke(ctx, methodName("AnalyzePatterns"), req, &reply); err != nil {
		return pattern.Analysis{}, fmt.Errorf("analyze patterns rpc: %w", err)
	}
	return reply.Analysis, nil
}

// #endregion asset-rpcs
