// Command console is an interactive client for a running emotived. It keeps
// one session open per run: each observation line records a performance row
// and advances the trajectory, and the derived scores print after every
// turn.
package main

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/neuroemotive/emotive-core/internal/emotion"
	"github.com/neuroemotive/emotive-core/internal/service"
	"github.com/neuroemotive/emotive-core/internal/session"
)

const callTimeout = 10 * time.Second

// #region main

func main() {
	addr := envOr("EMOTIVE_ADDR", "localhost:50061")
	creator := envOr("EMOTIVE_CREATOR", "console")

	client, err := service.Dial(addr)
	if err != nil {
		log.Fatalf("failed to connect to emotived at %s: %v", addr, err)
	}
	defer client.Close()

	sessionID := newSessionID(creator)

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	initial := emotion.Vector{
		Valence: 0, Arousal: 0.3, Dominance: 0.5, Confidence: 0.8,
		Timestamp: time.Now().Unix(),
	}
	sess, err := client.InitializeSession(ctx, creator, sessionID, initial, nil)
	cancel()
	if err != nil {
		log.Fatalf("failed to initialize session: %v", err)
	}

	fmt.Println("Emotive Ledger Console ready.")
	fmt.Printf("  Server: %s | Creator: %s\n", addr, creator)
	fmt.Printf("  Session: %s\n", hex.EncodeToString(sess.SessionID[:]))
	fmt.Println("Commands: obs <val> <aro> <dom> <conf> <quality> | show | compress | rep <score> | quit")

	scanner := bufio.NewScanner(os.Stdin)
	turnNum := 0

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "quit", "exit":
			return
		case "obs":
			turnNum++
			runObservation(client, creator, sessionID, fields[1:], turnNum)
		case "show":
			runShow(client, sessionID)
		case "compress":
			runCompress(client, creator, sessionID)
		case "rep":
			runReputation(client, creator, sessionID, fields[1:])
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

// #endregion main

// #region commands

// runObservation records one observation and advances the trajectory with
// the same vector, mirroring how a live capture pipeline drives the ledger.
func runObservation(client *service.Client, creator string, id [32]byte, args []string, turn int) {
	if len(args) != 5 {
		fmt.Println("usage: obs <valence> <arousal> <dominance> <confidence> <quality>")
		return
	}
	vals, err := parseFloats(args)
	if err != nil {
		fmt.Printf("parse error: %v\n", err)
		return
	}

	vec := emotion.Vector{
		Valence:    vals[0],
		Arousal:    vals[1],
		Dominance:  vals[2],
		Confidence: vals[3],
		Timestamp:  time.Now().Unix(),
	}
	obs := session.Observation{
		Vector:    vec,
		Intensity: 0.5,
		Quality:   vals[4],
	}

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	sess, perf, err := client.RecordPerformance(ctx, creator, id, obs)
	cancel()
	if err != nil {
		log.Printf("record error: %v", err)
		return
	}

	ctx, cancel = context.WithTimeout(context.Background(), callTimeout)
	sess, tr, err := client.AdvanceTrajectory(ctx, creator, id, vec)
	cancel()
	if err != nil {
		log.Printf("advance error: %v", err)
		return
	}

	fmt.Printf("[turn-%d] impact=%.4f boost=%.4f reputation=%.4f complexity=%.4f history=%d\n",
		turn, perf.Impact, perf.Boost, sess.Reputation, sess.Complexity, len(tr.History))
}

func runShow(client *service.Client, id [32]byte) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	sess, err := client.GetSession(ctx, id)
	cancel()
	if err != nil {
		log.Printf("get error: %v", err)
		return
	}

	fmt.Printf("creator=%s turns=%d\n", sess.Creator, sess.InteractionCount)
	fmt.Printf("vector: v=%.3f a=%.3f d=%.3f c=%.3f\n",
		sess.Vector.Valence, sess.Vector.Arousal, sess.Vector.Dominance, sess.Vector.Confidence)
	fmt.Printf("scores: reputation=%.4f complexity=%.4f creativity=%.4f\n",
		sess.Reputation, sess.Complexity, sess.CreativityIndex)
	fmt.Printf("digest: %s\n", hex.EncodeToString(sess.CompressedState[:8]))
}

func runCompress(client *service.Client, creator string, id [32]byte) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	sess, err := client.CompressState(ctx, creator, id)
	cancel()
	if err != nil {
		log.Printf("compress error: %v", err)
		return
	}
	fmt.Printf("digest refreshed: %s\n", hex.EncodeToString(sess.CompressedState[:8]))
}

func runReputation(client *service.Client, creator string, id [32]byte, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: rep <performance 0..1>")
		return
	}
	score, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		fmt.Printf("parse error: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	rec, err := client.UpdateReputation(ctx, creator, id, float32(score))
	cancel()
	if err != nil {
		log.Printf("reputation error: %v", err)
		return
	}
	fmt.Printf("reputation=%.4f sessions=%d rank=%d\n", rec.Score, rec.TotalSessions, rec.CommunityRank)
}

// #endregion commands

// #region helpers

// newSessionID derives a fresh ID from the creator and wall clock. Console
// sessions are throwaway, so collision resistance is all that matters.
func newSessionID(creator string) [32]byte {
	return sha256.Sum256([]byte(fmt.Sprintf("%s-%d", creator, time.Now().UnixNano())))
}

func parseFloats(args []string) ([]float32, error) {
	out := make([]float32, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", a)
		}
		out[i] = float32(f)
	}
	return out, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
