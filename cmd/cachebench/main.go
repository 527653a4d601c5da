package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/reelzy/backend/internal/cache"
	"github.com/reelzy/backend/internal/model"
	"github.com/reelzy/backend/internal/repository"
)

type request struct {
	page int
	size int
}

func main() {
	ctx := context.Background()

	// Use PostgreSQL for realistic testing
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=postgres port=5434 sslmode=disable"
	}

	db := must(gorm.Open(postgres.Open(dsn), &gorm.Config{}))

	// Clean up existing test data
	mustDo(db.Exec("DROP TABLE IF EXISTS fans CASCADE").Error)
	mustDo(db.Exec("DROP TABLE IF EXISTS users CASCADE").Error)

	mustDo(db.AutoMigrate(&model.User{}, &model.Fan{}))

	const userCount = 20000

	fmt.Println("Setting up test data...")

	// Three accounts with overlapping follower sets
	acct1 := model.User{ID: "user1", Username: "user1", Password: "secret"}
	acct2 := model.User{ID: "user2", Username: "user2", Password: "secret"}
	acct3 := model.User{ID: "user3", Username: "user3", Password: "secret"}
	mustDo(db.Create(&acct1).Error)
	mustDo(db.Create(&acct2).Error)
	mustDo(db.Create(&acct3).Error)

	followers := make([]model.User, userCount)
	fanRows1 := make([]model.Fan, userCount/2)
	fanRows2 := make([]model.Fan, userCount/2)
	fanRows3 := make([]model.Fan, userCount/2)
	base := time.Now()
	for i := 0; i < userCount; i++ {
		id := uuid.NewString()
		followers[i] = model.User{
			ID:       id,
			Username: fmt.Sprintf("user_%d", i),
			Password: "secret",
		}
	}

	for i := 0; i < userCount/2; i++ {
		// acct1: followers 0-9999
		fanRows1[i] = model.Fan{
			ID:        uuid.NewString(),
			UserID:    acct1.ID,
			FanID:     followers[i].ID,
			CreatedAt: base.Add(-time.Duration(i) * time.Second),
		}

		// acct2: followers 5000-14999 (50% overlap with acct1)
		fanRows2[i] = model.Fan{
			ID:        uuid.NewString(),
			UserID:    acct2.ID,
			FanID:     followers[i+userCount/4].ID,
			CreatedAt: base.Add(-time.Duration(i) * time.Second),
		}

		// acct3: followers 7500-17499 (overlap with acct2)
		fanRows3[i] = model.Fan{
			ID:        uuid.NewString(),
			UserID:    acct3.ID,
			FanID:     followers[(i+userCount*3/8)%userCount].ID,
			CreatedAt: base.Add(-time.Duration(i) * time.Second),
		}
	}

	mustDo(db.CreateInBatches(&followers, 1000).Error)
	mustDo(db.CreateInBatches(&fanRows1, 1000).Error)
	mustDo(db.CreateInBatches(&fanRows2, 1000).Error)
	mustDo(db.CreateInBatches(&fanRows3, 1000).Error)
	fmt.Println("Test data ready: 3 accounts with overlapping followers")

	// Use real Redis
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6380"
	}

	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis at %s: %v", redisAddr, err))
	}

	fanRepo := repository.NewFanRepository(db)
	userRepo := repository.NewUserRepository(db)
	followerCache := cache.NewFollowerCache(client, fanRepo, userRepo, 10*time.Minute)

	// Mix requests from 3 different accounts
	allReqs := make([]struct {
		userID string
		req    request
	}, 0, 9000)
	for _, id := range []string{acct1.ID, acct2.ID, acct3.ID} {
		for _, r := range makeRequests(3000) {
			allReqs = append(allReqs, struct {
				userID string
				req    request
			}{id, r})
		}
	}

	// Uncached path: page query against fans + bulk user load
	direct := func(ctx context.Context, userID string, r request) error {
		fans, err := fanRepo.ListFans(ctx, userID, (r.page-1)*r.size, r.size)
		if err != nil {
			return err
		}
		ids := make([]string, len(fans))
		for i, f := range fans {
			ids[i] = f.FanID
		}
		_, err = userRepo.GetMany(ctx, ids)
		return err
	}

	cached := func(ctx context.Context, userID string, r request) error {
		_, err := followerCache.Followers(ctx, userID, r.page, r.size)
		return err
	}

	noCache := runScenario(ctx, allReqs, false, direct, client)
	withCache := runScenario(ctx, allReqs, true, cached, client)

	fmt.Println("\nFollower list latency (9k req across 3 accounts, 20k users, PostgreSQL + Redis)")
	fmt.Printf("%-14s avg=%v p95=%v p99=%v cache_keys=%d mem=%s\n",
		"No cache", avg(noCache.durations), pct(noCache.durations, 0.95), pct(noCache.durations, 0.99),
		noCache.cacheKeys, formatBytes(noCache.memoryBytes),
	)
	fmt.Printf("%-14s avg=%v p95=%v p99=%v cache_keys=%d mem=%s\n",
		"List cache", avg(withCache.durations), pct(withCache.durations, 0.95), pct(withCache.durations, 0.99),
		withCache.cacheKeys, formatBytes(withCache.memoryBytes),
	)
}

type scenarioResult struct {
	durations   []time.Duration
	cacheKeys   int
	memoryBytes int64
}

func runScenario(ctx context.Context, reqs []struct {
	userID string
	req    request
}, warm bool, call func(context.Context, string, request) error, client *redis.Client) scenarioResult {
	client.FlushAll(ctx)

	if warm {
		fmt.Print("  Warming cache...")
		for _, r := range reqs {
			if err := call(ctx, r.userID, r.req); err != nil {
				panic(err)
			}
		}
		fmt.Println(" done")
	}

	fmt.Print("  Running benchmark...")
	out := make([]time.Duration, 0, len(reqs))
	for _, r := range reqs {
		start := time.Now()
		if err := call(ctx, r.userID, r.req); err != nil {
			panic(err)
		}
		out = append(out, time.Since(start))
	}
	fmt.Println(" done")

	keys, _ := client.Keys(ctx, "*").Result()

	info, err := client.Info(ctx, "memory").Result()
	var memBytes int64
	if err == nil {
		memBytes = parseRedisMemory(info)
	}

	return scenarioResult{
		durations:   out,
		cacheKeys:   len(keys),
		memoryBytes: memBytes,
	}
}

// parseRedisMemory extracts used_memory from Redis INFO
func parseRedisMemory(info string) int64 {
	lines := []rune(info)
	var result int64

	// Look for "used_memory:" line
	for i := 0; i < len(lines); {
		if i+12 < len(lines) && string(lines[i:i+12]) == "used_memory:" {
			// Parse the number
			i += 12
			var num int64
			for i < len(lines) && lines[i] >= '0' && lines[i] <= '9' {
				num = num*10 + int64(lines[i]-'0')
				i++
			}
			result = num
			break
		}
		i++
	}
	return result
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func makeRequests(n int) []request {
	sizes := []int{20, 40, 60}
	out := make([]request, n)
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < n; i++ {
		size := sizes[rnd.Intn(len(sizes))]
		page := 1
		if rnd.Float64() > 0.72 {
			// simulate deep pagination or different views
			page = 2 + rnd.Intn(120)
		}
		out[i] = request{page: page, size: size}
	}
	return out
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range vs {
		sum += v
	}
	return sum / time.Duration(len(vs))
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), vs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}
