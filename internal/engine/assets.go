package engine

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neuroemotive/emotive-core/internal/asset"
	"github.com/neuroemotive/emotive-core/internal/emotion"
	"github.com/neuroemotive/emotive-core/internal/event"
	"github.com/neuroemotive/emotive-core/internal/pattern"
	"github.com/neuroemotive/emotive-core/internal/store"
)

// #region registry-ops
// InitializeRegistry creates (or re-points) the aggregate counter row.
func (e *Engine) InitializeRegistry(authority string) (store.Registry, error) {
	reg, err := e.store.InitRegistry(authority, e.now())
	if err != nil {
		return store.Registry{}, err
	}

	e.appendEvent(event.Entry{
		Type:     event.TypeRegistryInitialized,
		RecordID: "registry",
		Actor:    authority,
	})
	e.log.Info("registry initialized", zap.String("authority", authority))
	return reg, nil
}

// Registry loads the aggregate counter row.
func (e *Engine) Registry() (store.Registry, error) {
	return e.store.Registry()
}

// #endregion registry-ops

// #region collection-ops
// InitializeCollection creates an empty asset collection owned by authority.
func (e *Engine) InitializeCollection(authority, name, symbol, uri string) (asset.Collection, error) {
	col, err := asset.NewCollection(uuid.New().String(), authority, name, symbol, uri)
	if err != nil {
		return asset.Collection{}, err
	}
	saved, err := e.store.CreateCollection(col, e.now())
	if err != nil {
		return asset.Collection{}, err
	}

	e.appendEvent(event.Entry{
		Type:     event.TypeCollectionInitialized,
		RecordID: saved.ID,
		Actor:    authority,
		Details:  detailsJSON(map[string]interface{}{"name": name, "symbol": symbol}),
	})
	e.log.Info("collection initialized",
		zap.String("collection", saved.ID),
		zap.String("name", name))
	return saved, nil
}

// GetCollection loads a collection by ID.
func (e *Engine) GetCollection(id string) (asset.Collection, error) {
	return e.store.GetCollection(id)
}

// #endregion collection-ops

// #region asset-ops
// MintAsset mints a fingerprinted asset into the collection, owned by the
// caller. Generation is assigned from the collection's supply counter.
func (e *Engine) MintAsset(caller, collectionID string, in asset.MintInput) (asset.Asset, error) {
	col, err := e.store.GetCollection(collectionID)
	if err != nil {
		return asset.Asset{}, err
	}

	col, a, err := asset.Mint(col, uuid.New().String(), caller, in, e.policy, e.now())
	if err != nil {
		return asset.Asset{}, err
	}
	_, saved, err := e.store.SaveMint(col, a)
	if err != nil {
		return asset.Asset{}, err
	}

	e.appendEvent(event.Entry{
		Type:     event.TypeAssetMinted,
		RecordID: saved.ID,
		Actor:    caller,
		Details: detailsJSON(map[string]interface{}{
			"collection": collectionID,
			"generation": saved.Generation,
		}),
	})
	e.log.Info("asset minted",
		zap.String("asset", saved.ID),
		zap.String("owner", caller),
		zap.Uint64("generation", saved.Generation))
	return saved, nil
}

// GetAsset loads an asset by ID.
func (e *Engine) GetAsset(id string) (asset.Asset, error) {
	return e.store.GetAsset(id)
}

// UpdateAssetEmotion refreshes the owner's asset with a new emotional state,
// signature, and confidence. The fingerprint is immutable.
func (e *Engine) UpdateAssetEmotion(caller, assetID string, vec emotion.Vector, sig [64]byte, confidence float32) (asset.Asset, error) {
	a, err := e.loadOwnedAsset(caller, assetID)
	if err != nil {
		return asset.Asset{}, err
	}

	updated, err := asset.UpdateEmotion(a, vec, sig, confidence, e.policy, e.now())
	if err != nil {
		return asset.Asset{}, err
	}
	saved, err := e.store.SaveAsset(updated)
	if err != nil {
		return asset.Asset{}, err
	}

	e.appendEvent(event.Entry{
		Type:     event.TypeAssetEmotionUpdated,
		RecordID: assetID,
		Actor:    caller,
		Details:  detailsJSON(map[string]interface{}{"confidence": confidence}),
	})
	e.log.Info("asset emotion updated",
		zap.String("asset", assetID),
		zap.Float32("confidence", confidence))
	return saved, nil
}

// TransferAsset moves ownership to newOwner if the gate commits. Rejections
// are logged to the event trail with the gate's reason.
func (e *Engine) TransferAsset(caller, assetID, newOwner string) (asset.Asset, error) {
	a, err := e.loadOwnedAsset(caller, assetID)
	if err != nil {
		return asset.Asset{}, err
	}

	decision := e.gate.Evaluate(a, newOwner)
	e.log.Info("transfer gate",
		zap.String("asset", assetID),
		zap.String("action", decision.Action),
		zap.Float32("soft_score", decision.SoftScore),
		zap.String("reason", decision.Reason))
	if err := decision.Err(); err != nil {
		e.appendEvent(event.Entry{
			Type:     event.TypeAssetTransferred,
			RecordID: assetID,
			Actor:    caller,
			Details: detailsJSON(map[string]interface{}{
				"action": decision.Action,
				"reason": decision.Reason,
			}),
		})
		return asset.Asset{}, err
	}

	saved, err := e.store.SaveAsset(asset.ApplyTransfer(a, newOwner, e.now()))
	if err != nil {
		return asset.Asset{}, err
	}

	e.appendEvent(event.Entry{
		Type:     event.TypeAssetTransferred,
		RecordID: assetID,
		Actor:    caller,
		Details: detailsJSON(map[string]interface{}{
			"action":     decision.Action,
			"new_owner":  newOwner,
			"soft_score": decision.SoftScore,
		}),
	})
	e.log.Info("asset transferred",
		zap.String("asset", assetID),
		zap.String("from", caller),
		zap.String("to", newOwner))
	return saved, nil
}

// #endregion asset-ops

// #region pattern-ops
// AnalyzePatterns aggregates the named assets' emotional states into
// averages, stability, and a classified pattern.
func (e *Engine) AnalyzePatterns(assetIDs []string) (pattern.Analysis, error) {
	vectors, err := e.store.AssetEmotions(assetIDs)
	if err != nil {
		return pattern.Analysis{}, err
	}
	analysis, err := pattern.Analyze(vectors)
	if err != nil {
		return pattern.Analysis{}, err
	}

	e.log.Info("patterns analyzed",
		zap.Int("assets", len(assetIDs)),
		zap.String("pattern", string(analysis.Pattern)),
		zap.Float32("stability", analysis.Stability))
	return analysis, nil
}

// #endregion pattern-ops

// #region helpers
// loadOwnedAsset loads an asset and asserts the caller owns it.
func (e *Engine) loadOwnedAsset(caller, id string) (asset.Asset, error) {
	a, err := e.store.GetAsset(id)
	if err != nil {
		return asset.Asset{}, err
	}
	if a.Owner != caller {
		return asset.Asset{}, fmt.Errorf("asset %s owned by %s: %w", id, a.Owner, ErrUnauthorized)
	}
	return a, nil
}

// #endregion helpers
