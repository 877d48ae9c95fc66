// Command seed populates an emotive ledger with a deterministic demo
// dataset: three creators, one session each, a fingerprint collection, and
// a handful of minted assets. Every write goes through the engine so the
// seeded rows carry real derived scores and event log entries.
package main

import (
	"crypto/sha256"
	"fmt"
	"log"
	"os"

	"github.com/neuroemotive/emotive-core/internal/asset"
	"github.com/neuroemotive/emotive-core/internal/emotion"
	"github.com/neuroemotive/emotive-core/internal/engine"
	"github.com/neuroemotive/emotive-core/internal/session"
	"github.com/neuroemotive/emotive-core/internal/store"
)

// seedStart anchors all seeded timestamps so repeated runs against a fresh
// database produce identical rows.
const seedStart int64 = 1700000000

// #region main

func main() {
	dbPath := envOr("EMOTIVE_DB", "emotive.db")
	authority := envOr("EMOTIVE_AUTHORITY", "seed-authority")

	fmt.Println("=== Ledger Seed Tool ===")
	fmt.Printf("  DB: %s | Authority: %s\n", dbPath, authority)

	st, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	eng := engine.New(st, engine.DefaultConfig(), nil)

	if _, err := eng.InitializeRegistry(authority); err != nil {
		log.Fatalf("initialize registry: %v", err)
	}

	fmt.Println("\n--- Phase 1: Sessions ---")
	creators := []string{"maya", "ren", "ishaan"}
	sessionIDs := make([][32]byte, len(creators))
	for i, creator := range creators {
		id, err := seedSession(eng, creator, i)
		if err != nil {
			log.Fatalf("seed session for %s: %v", creator, err)
		}
		sessionIDs[i] = id
		fmt.Printf("  [%d/%d] %s: session %x seeded\n", i+1, len(creators), creator, id[:4])
	}

	fmt.Println("\n--- Phase 2: Reputation ---")
	for i, creator := range creators {
		rec, err := eng.UpdateReputation(creator, sessionIDs[i], 0.8)
		if err != nil {
			log.Fatalf("update reputation for %s: %v", creator, err)
		}
		fmt.Printf("  %s: score %.4f, rank %d\n", creator, rec.Score, rec.CommunityRank)
	}

	fmt.Println("\n--- Phase 3: Assets ---")
	col, err := eng.InitializeCollection(authority, "Emotive Moments", "EMO", "https://emotive.example/meta")
	if err != nil {
		log.Fatalf("initialize collection: %v", err)
	}
	fmt.Printf("  Collection %s (%s)\n", col.Name, col.ID)

	assetIDs := make([]string, len(creators))
	for i, creator := range creators {
		a, err := eng.MintAsset(creator, col.ID, mintInput(creator, i))
		if err != nil {
			log.Fatalf("mint for %s: %v", creator, err)
		}
		assetIDs[i] = a.ID
		fmt.Printf("  minted %s gen %d for %s\n", a.ID[:8], a.Generation, creator)
	}

	fmt.Println("\n--- Phase 4: Transfer & Analysis ---")
	// The first asset is seeded calm (arousal 0.4), so the gate commits.
	transferred, err := eng.TransferAsset(creators[0], assetIDs[0], "gallery")
	if err != nil {
		log.Fatalf("transfer: %v", err)
	}
	fmt.Printf("  %s transferred to %s\n", transferred.ID[:8], transferred.Owner)

	analysis, err := eng.AnalyzePatterns(assetIDs)
	if err != nil {
		log.Fatalf("analyze patterns: %v", err)
	}
	fmt.Printf("  pattern: %s (stability %.3f)\n", analysis.Pattern, analysis.Stability)

	fmt.Printf("\n=== Seed Complete ===\n")
	fmt.Printf("  Sessions: %d\n", len(creators))
	fmt.Printf("  Assets:   %d\n", len(assetIDs))
	fmt.Printf("  Registry: %s\n", authority)
}

// #endregion main

// #region seed-data

// seedSession initializes one session and walks it through three
// observations with trajectory advances, a digest refresh, and a bridge
// status for the first creator.
func seedSession(eng *engine.Engine, creator string, idx int) ([32]byte, error) {
	id := sha256.Sum256([]byte(fmt.Sprintf("seed-session-%s", creator)))
	base := seedStart + int64(idx)*3600

	initial := emotion.Vector{
		Valence: 0.5, Arousal: 0.3, Dominance: 0.6, Confidence: 0.9,
		Timestamp: base,
	}
	if _, err := eng.InitializeSession(creator, id, initial, []float32{0.2, 0.4}); err != nil {
		return id, err
	}

	// Three turns per creator. Offsetting by index keeps the walks distinct
	// without randomness.
	shift := float32(idx) * 0.05
	walks := []emotion.Vector{
		{Valence: 0.7 - shift, Arousal: 0.4, Dominance: 0.5, Confidence: 0.9},
		{Valence: 0.6 - shift, Arousal: 0.5, Dominance: 0.55, Confidence: 0.85},
		{Valence: 0.8 - shift, Arousal: 0.35, Dominance: 0.6, Confidence: 0.92},
	}
	for t, vec := range walks {
		vec.Timestamp = base + int64(t+1)*60
		obs := session.Observation{
			Vector:    vec,
			Params:    []float32{0.8, 0.2},
			Intensity: 0.6,
			Quality:   0.7 + float32(t)*0.05,
		}
		if _, _, err := eng.RecordPerformance(creator, id, obs); err != nil {
			return id, err
		}
		if _, _, err := eng.AdvanceTrajectory(creator, id, vec); err != nil {
			return id, err
		}
	}

	if _, err := eng.CompressState(creator, id); err != nil {
		return id, err
	}

	if idx == 0 {
		info := session.BridgeInfo{
			TargetChain:    "polygon",
			TargetContract: "0xseed",
			Status:         session.BridgePending,
			BridgeTime:     base + 600,
		}
		if _, err := eng.SetBridgeStatus(creator, id, info); err != nil {
			return id, err
		}
	}

	return id, nil
}

// mintInput derives a deterministic fingerprint and signature per creator.
func mintInput(creator string, idx int) asset.MintInput {
	fp := sha256.Sum256([]byte(fmt.Sprintf("seed-fingerprint-%s", creator)))
	var sig [64]byte
	copy(sig[:32], fp[:])
	copy(sig[32:], fp[:])

	return asset.MintInput{
		Fingerprint:  fp,
		Signature:    sig,
		AIConfidence: 0.9,
		Emotion: emotion.Vector{
			Valence: 0.6, Arousal: 0.4 + float32(idx)*0.1, Dominance: 0.5,
			Confidence: 0.9, Timestamp: seedStart,
		},
		URI: fmt.Sprintf("https://emotive.example/assets/%s", creator),
	}
}

// #endregion seed-data

// #region helpers

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
