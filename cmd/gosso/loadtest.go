package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	goSSO "github.com/MrEthical07/goSSO"
	"github.com/MrEthical07/goSSO/password"
)

type loadtestOptions struct {
	accounts    int
	concurrency int
	ops         int
	redisAddr   string
	prefix      string
	bcryptCost  int
}

// NewLoadtestCmd creates the loadtest subcommand. It drives full handoffs
// against an engine on redisAddr, or on an embedded miniredis when empty.
func NewLoadtestCmd() *cobra.Command {
	opts := &loadtestOptions{}

	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Measure login and claim latency against a store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.accounts <= 0 || opts.concurrency <= 0 || opts.ops <= 0 {
				return fmt.Errorf("accounts, concurrency, and ops must be > 0")
			}
			return runLoadtest(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.accounts, "accounts", 200, "number of accounts to seed")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 32, "number of concurrent workers")
	cmd.Flags().IntVar(&opts.ops, "ops", 2000, "handoffs to run")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "redis address; miniredis when empty")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "ssoload", "key prefix")
	cmd.Flags().IntVar(&opts.bcryptCost, "bcrypt-cost", 4, "bcrypt cost for seeded passwords")

	return cmd
}

type issued struct {
	ticketID  string
	sessionID string
	token     string
}

func runLoadtest(ctx context.Context, out io.Writer, opts *loadtestOptions) error {
	addr := opts.redisAddr
	var mr *miniredis.Miniredis
	if addr == "" {
		var err error
		mr, err = miniredis.Run()
		if err != nil {
			return fmt.Errorf("start miniredis: %w", err)
		}
		defer mr.Close()
		addr = mr.Addr()
		fmt.Fprintf(out, "using miniredis at %s\n", addr)
	} else {
		fmt.Fprintf(out, "using redis at %s\n", addr)
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer func() { _ = client.Close() }()

	cfg := goSSO.DefaultConfig()
	cfg.Password.Algorithm = password.AlgorithmBcrypt
	cfg.Password.BcryptCost = opts.bcryptCost
	cfg.Store.KeyPrefix = opts.prefix
	cfg.Metrics.Enabled = true

	engine, err := goSSO.New().WithConfig(cfg).WithRedis(client).Build()
	if err != nil {
		return err
	}

	emails := make([]string, opts.accounts)
	fmt.Fprintf(out, "seeding %d accounts...\n", opts.accounts)
	startSeed := time.Now()
	runID := time.Now().UnixNano()
	for i := range emails {
		emails[i] = fmt.Sprintf("load-%d-%d@example.com", runID, i)
		if _, err := engine.Register(ctx, goSSO.RegisterRequest{
			Email:    emails[i],
			Username: fmt.Sprintf("load-%d-%d", runID, i),
			Password: "load-password",
		}); err != nil {
			return fmt.Errorf("register: %w", err)
		}
	}
	fmt.Fprintf(out, "seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	loginStats, sessions := runLoginPhase(ctx, engine, emails, opts.ops, opts.concurrency)
	claimStats := runClaimPhase(ctx, engine, sessions, opts.concurrency)

	fmt.Fprintln(out, "---- results ----")
	printStats(out, "login", loginStats)
	printStats(out, "claim", claimStats)

	snap := engine.MetricsSnapshot()
	fmt.Fprintf(out, "engine: logins=%d claims=%d burned=%d backend_errors=%d\n",
		snap.Counters[goSSO.MetricLoginSuccess],
		snap.Counters[goSSO.MetricClaimSuccess],
		snap.Counters[goSSO.MetricTokenBurned],
		snap.Counters[goSSO.MetricBackendError],
	)
	return nil
}

// runLoginPhase creates a ticket and logs in for each op. A later login for
// the same account invalidates the earlier session, so only the last login
// per account is kept for the claim phase.
func runLoginPhase(ctx context.Context, engine *goSSO.Engine, emails []string, ops, concurrency int) (phaseStats, []issued) {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		latest    = make(map[string]issued, len(emails))
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				email := emails[r.Intn(len(emails))]

				t0 := time.Now()
				ticketID, err := engine.CreateTicket(ctx, goSSO.CreateTicketRequest{TicketKey: "load", RedirectURL: "https://load.example/cb"})
				var res *goSSO.SessionResult
				if err == nil {
					res, err = engine.Login(ctx, goSSO.LoginRequest{TicketID: ticketID, Email: email, Password: "load-password"})
				}
				d := time.Since(t0)

				mu.Lock()
				latencies = append(latencies, d)
				if err == nil {
					token, _ := res.Token.Reveal()
					latest[email] = issued{ticketID: ticketID, sessionID: res.SessionID, token: token}
				}
				mu.Unlock()
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)

	sessions := make([]issued, 0, len(latest))
	for _, s := range latest {
		sessions = append(sessions, s)
	}
	return computeStats(total, latencies, failures), sessions
}

func runClaimPhase(ctx context.Context, engine *goSSO.Engine, sessions []issued, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, len(sessions))
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= len(sessions) {
					return
				}
				s := sessions[i]

				t0 := time.Now()
				_, err := engine.ClaimSession(ctx, goSSO.ClaimRequest{
					TicketID:  s.ticketID,
					TicketKey: "load",
					SessionID: s.sessionID,
					Token:     s.token,
				})
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}

				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total, failures: failures}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(out io.Writer, name string, s phaseStats) {
	fmt.Fprintf(out, "%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
