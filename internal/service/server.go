package service

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/neuroemotive/emotive-core/internal/asset"
	"github.com/neuroemotive/emotive-core/internal/emotion"
	"github.com/neuroemotive/emotive-core/internal/engine"
	"github.com/neuroemotive/emotive-core/internal/gate"
	"github.com/neuroemotive/emotive-core/internal/store"
)

// ServiceName is the fully qualified gRPC service the ledger registers as.
const ServiceName = "emotive.v1.EmotiveLedger"

// #region server

// Server exposes an engine over gRPC.
type Server struct {
	engine *engine.Engine
}

// Register wires the ledger service onto s.
func Register(s *grpc.Server, eng *engine.Engine) {
	s.RegisterService(&serviceDesc, &Server{engine: eng})
}

// ledgerService is the contract serviceDesc dispatches on.
type ledgerService interface {
	initializeSession(ctx context.Context, req *initializeSessionRequest) (*sessionReply, error)
	recordPerformance(ctx context.Context, req *recordPerformanceRequest) (*recordPerformanceReply, error)
	advanceTrajectory(ctx context.Context, req *advanceTrajectoryRequest) (*advanceTrajectoryReply, error)
	compressState(ctx context.Context, req *compressStateRequest) (*sessionReply, error)
	setBridgeStatus(ctx context.Context, req *setBridgeStatusRequest) (*sessionReply, error)
	updateReputation(ctx context.Context, req *updateReputationRequest) (*reputationReply, error)
	getSession(ctx context.Context, req *getSessionRequest) (*sessionReply, error)
	getReputation(ctx context.Context, req *getReputationRequest) (*reputationReply, error)
	initializeCollection(ctx context.Context, req *initializeCollectionRequest) (*collectionReply, error)
	mintAsset(ctx context.Context, req *mintAssetRequest) (*assetReply, error)
	updateAssetEmotion(ctx context.Context, req *updateAssetEmotionRequest) (*assetReply, error)
	transferAsset(ctx context.Context, req *transferAssetRequest) (*assetReply, error)
	analyzePatterns(ctx context.Context, req *analyzePatternsRequest) (*analysisReply, error)
}

// #endregion server

// #region methods

func (s *Server) initializeSession(_ context.Context, req *initializeSessionRequest) (*sessionReply, error) {
	sess, err := s.engine.InitializeSession(req.Caller, req.SessionID, req.Initial, req.Params)
	if err != nil {
		return nil, rpcError(err)
	}
	return &sessionReply{Session: sess}, nil
}

func (s *Server) recordPerformance(_ context.Context, req *recordPerformanceRequest) (*recordPerformanceReply, error) {
	sess, perf, err := s.engine.RecordPerformance(req.Caller, req.SessionID, req.Observation)
	if err != nil {
		return nil, rpcError(err)
	}
	return &recordPerformanceReply{Session: sess, Performance: perf}, nil
}

func (s *Server) advanceTrajectory(_ context.Context, req *advanceTrajectoryRequest) (*advanceTrajectoryReply, error) {
	sess, tr, err := s.engine.AdvanceTrajectory(req.Caller, req.SessionID, req.Next)
	if err != nil {
		return nil, rpcError(err)
	}
	return &advanceTrajectoryReply{Session: sess, Trajectory: tr}, nil
}

func (s *Server) compressState(_ context.Context, req *compressStateRequest) (*sessionReply, error) {
	sess, err := s.engine.CompressState(req.Caller, req.SessionID)
	if err != nil {
		return nil, rpcError(err)
	}
	return &sessionReply{Session: sess}, nil
}

func (s *Server) setBridgeStatus(_ context.Context, req *setBridgeStatusRequest) (*sessionReply, error) {
	sess, err := s.engine.SetBridgeStatus(req.Caller, req.SessionID, req.Bridge)
	if err != nil {
		return nil, rpcError(err)
	}
	return &sessionReply{Session: sess}, nil
}

func (s *Server) updateReputation(_ context.Context, req *updateReputationRequest) (*reputationReply, error) {
	rec, err := s.engine.UpdateReputation(req.Caller, req.SessionID, req.Performance)
	if err != nil {
		return nil, rpcError(err)
	}
	return &reputationReply{Record: rec}, nil
}

func (s *Server) getSession(_ context.Context, req *getSessionRequest) (*sessionReply, error) {
	sess, err := s.engine.GetSession(req.SessionID)
	if err != nil {
		return nil, rpcError(err)
	}
	return &sessionReply{Session: sess}, nil
}

func (s *Server) getReputation(_ context.Context, req *getReputationRequest) (*reputationReply, error) {
	rec, err := s.engine.GetReputation(req.Creator)
	if err != nil {
		return nil, rpcError(err)
	}
	return &reputationReply{Record: rec}, nil
}

func (s *Server) initializeCollection(_ context.Context, req *initializeCollectionRequest) (*collectionReply, error) {
	col, err := s.engine.InitializeCollection(req.Authority, req.Name, req.Symbol, req.URI)
	if err != nil {
		return nil, rpcError(err)
	}
	return &collectionReply{Collection: col}, nil
}

func (s *Server) mintAsset(_ context.Context, req *mintAssetRequest) (*assetReply, error) {
	a, err := s.engine.MintAsset(req.Caller, req.CollectionID, req.Input)
	if err != nil {
		return nil, rpcError(err)
	}
	return &assetReply{Asset: a}, nil
}

func (s *Server) updateAssetEmotion(_ context.Context, req *updateAssetEmotionRequest) (*assetReply, error) {
	a, err := s.engine.UpdateAssetEmotion(req.Caller, req.AssetID, req.Emotion, req.Signature, req.AIConfidence)
	if err != nil {
		return nil, rpcError(err)
	}
	return &assetReply{Asset: a}, nil
}

func (s *Server) transferAsset(_ context.Context, req *transferAssetRequest) (*assetReply, error) {
	a, err := s.engine.TransferAsset(req.Caller, req.AssetID, req.NewOwner)
	if err != nil {
		return nil, rpcError(err)
	}
	return &assetReply{Asset: a}, nil
}

func (s *Server) analyzePatterns(_ context.Context, req *analyzePatternsRequest) (*analysisReply, error) {
	an, err := s.engine.AnalyzePatterns(req.AssetIDs)
	if err != nil {
		return nil, rpcError(err)
	}
	return &analysisReply{Analysis: an}, nil
}

// #endregion methods

// #region errors

// rpcError maps the ledger's sentinel errors onto gRPC status codes. The
// error text rides along as the status message.
func rpcError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, store.ErrRevisionConflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, store.ErrDuplicate):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, engine.ErrUnauthorized):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, gate.ErrUnstableState):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, asset.ErrCollectionFull):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, emotion.ErrInvalidRange),
		errors.Is(err, asset.ErrInvalidFingerprint),
		errors.Is(err, asset.ErrLowConfidence),
		errors.Is(err, gate.ErrInvalidTransfer):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// #endregion errors

// #region service-desc

func unaryHandler[Req, Reply any](call func(ledgerService, context.Context, *Req) (*Reply, error)) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
		req := new(Req)
		if err := dec(req); err != nil {
			return nil, err
		}
		return call(srv.(ledgerService), ctx, req)
	}
}

// serviceDesc is maintained by hand; there is no generated stub layer.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ledgerService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "InitializeSession", Handler: unaryHandler(ledgerService.initializeSession)},
		{MethodName: "RecordPerformance", Handler: unaryHandler(ledgerService.recordPerformance)},
		{MethodName: "AdvanceTrajectory", Handler: unaryHandler(ledgerService.advanceTrajectory)},
		{MethodName: "CompressState", Handler: unaryHandler(ledgerService.compressState)},
		{MethodName: "SetBridgeStatus", Handler: unaryHandler(ledgerService.setBridgeStatus)},
		{MethodName: "UpdateReputation", Handler: unaryHandler(ledgerService.updateReputation)},
		{MethodName: "GetSession", Handler: unaryHandler(ledgerService.getSession)},
		{MethodName: "GetReputation", Handler: unaryHandler(ledgerService.getReputation)},
		{MethodName: "InitializeCollection", Handler: unaryHandler(ledgerService.initializeCollection)},
		{MethodName: "MintAsset", Handler: unaryHandler(ledgerService.mintAsset)},
		{MethodName: "UpdateAssetEmotion", Handler: unaryHandler(ledgerService.updateAssetEmotion)},
		{MethodName: "TransferAsset", Handler: unaryHandler(ledgerService.transferAsset)},
		{MethodName: "AnalyzePatterns", Handler: unaryHandler(ledgerService.analyzePatterns)},
	},
	Streams: []grpc.StreamDesc{},
}

// #endregion service-desc
