package main

import (
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/reelzy/backend/internal/ranking"
)

// 本地打分基准：合成候选集，测打分+排序+分页整链路耗时

type candidate struct {
	sig   ranking.Signals
	score float64
}

func main() {
	N := 5000
	if s := os.Getenv("N"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			N = n
		}
	}
	ROUNDS := 1000
	if s := os.Getenv("ROUNDS"); s != "" {
		if r, err := strconv.Atoi(s); err == nil && r > 0 {
			ROUNDS = r
		}
	}
	PAGE := 20
	if s := os.Getenv("PAGE"); s != "" {
		if p, err := strconv.Atoi(s); err == nil && p > 0 {
			PAGE = p
		}
	}

	rng := rand.New(rand.NewSource(42))
	now := time.Now()
	base := make([]candidate, N)
	for i := range base {
		base[i] = candidate{sig: ranking.Signals{
			Likes:     rng.Int63n(5000),
			Comments:  rng.Int63n(800),
			Views:     rng.Int63n(100000),
			Followed:  rng.Intn(10) == 0,
			Reposted:  rng.Intn(20) == 0,
			CreatedAt: now.Add(-time.Duration(rng.Intn(48)) * time.Hour),
		}}
	}

	durs := make([]time.Duration, 0, ROUNDS)
	for r := 0; r < ROUNDS; r++ {
		cands := make([]candidate, len(base))
		copy(cands, base)
		t0 := time.Now()
		for i := range cands {
			cands[i].score = ranking.Score(ranking.FeedReels, cands[i].sig, now)
		}
		sort.SliceStable(cands, func(i, j int) bool {
			if cands[i].score != cands[j].score {
				return cands[i].score > cands[j].score
			}
			return cands[i].sig.CreatedAt.After(cands[j].sig.CreatedAt)
		})
		_ = ranking.Page(cands, 1, PAGE)
		durs = append(durs, time.Since(t0))
	}

	sort.Slice(durs, func(i, j int) bool { return durs[i] < durs[j] })
	pct := func(p float64) time.Duration {
		idx := int(p * float64(len(durs)-1))
		return durs[idx]
	}
	var total time.Duration
	for _, d := range durs {
		total += d
	}

	fmt.Printf("feedbench N=%d rounds=%d page=%d\n", N, ROUNDS, PAGE)
	fmt.Printf("avg=%v p50=%v p95=%v p99=%v max=%v\n",
		total/time.Duration(len(durs)), pct(0.50), pct(0.95), pct(0.99), durs[len(durs)-1])
}
