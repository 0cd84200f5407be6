package cmd

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/taurusgroup/zkcheck/pkg/checks"
	"github.com/taurusgroup/zkcheck/pkg/math/curve"
	"github.com/taurusgroup/zkcheck/pkg/party"
	"github.com/taurusgroup/zkcheck/pkg/pool"
	"github.com/taurusgroup/zkcheck/pkg/protocol"
	"github.com/taurusgroup/zkcheck/protocols/check"
	"golang.org/x/sync/errgroup"
)

const (
	userID   party.ID = "user"
	serverID party.ID = "server"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run both parties of a check in memory",
		Long: `Run both parties of a check in memory.

The user's values are compared position by position with the server's expected values.
Values are arbitrary strings, hashed into the group within the given domain.
When set through ZKCHECK_VALUES or ZKCHECK_EXPECTED, values are separated by spaces.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, v)
		},
	}
	cmd.Flags().StringSlice(flagValues, nil, "comma separated values held by the user")
	cmd.Flags().StringSlice(flagExpected, nil, "comma separated values expected by the server")
	cmd.Flags().String(flagSession, "", "session identifier, a random UUID by default")
	cmd.Flags().String(flagDomain, "zkcheck", "domain separating the hashing of values")
	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper) error {
	log, err := newLogger(cmd, v)
	if err != nil {
		return err
	}
	group, err := curve.FromName(v.GetString(flagCurve))
	if err != nil {
		return err
	}
	values, expected := v.GetStringSlice(flagValues), v.GetStringSlice(flagExpected)
	if len(values) != len(expected) {
		return fmt.Errorf("%w: %d values, %d expected", checks.ErrLengthMismatch, len(values), len(expected))
	}
	session := v.GetString(flagSession)
	if session == "" {
		session = uuid.NewString()
	}

	workers := v.GetInt(flagWorkers)
	if workers < 0 {
		return fmt.Errorf("invalid %s: %d", flagWorkers, workers)
	}
	pl := pool.NewPool(workers)
	defer pl.TearDown()

	domain := v.GetString(flagDomain)
	config := check.Config{Group: group, Pool: pl, Log: &log}
	userStart := check.StartUser(config, userID, serverID, checks.ValuesFromBytes(group, domain, toBytes(values)))
	serverStart := check.StartServer(config, serverID, userID, checks.ValuesFromBytes(group, domain, toBytes(expected)))

	log.Info().Str("session", session).Str("curve", group.Name()).Int("positions", len(values)).Msg("starting check")

	sessionID := []byte(session)
	hUser, err := protocol.NewTwoPartyHandler(userStart, sessionID, true, protocol.WithLogger(log))
	if err != nil {
		return err
	}
	hServer, err := protocol.NewTwoPartyHandler(serverStart, sessionID, false, protocol.WithLogger(log))
	if err != nil {
		return err
	}

	if err = relay(cmd.Context(), hUser, hServer); err != nil {
		return err
	}

	if _, err = hUser.Result(); err != nil {
		return fmt.Errorf("user: %w", err)
	}
	res, err := hServer.Result()
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}
	result, ok := res.(*check.ServerResult)
	if !ok {
		return errors.New("server: unexpected result")
	}

	shared, err := result.SharedKey.MarshalBinary()
	if err != nil {
		return err
	}
	log.Info().Str("key", hex.EncodeToString(shared)).Msg("joint key")

	out := cmd.OutOrStdout()
	for i, passed := range result.Passed {
		status := "mismatch"
		if passed {
			status = "match"
		}
		fmt.Fprintf(out, "%d\t%s\n", i, status)
	}
	if result.AllPassed() {
		fmt.Fprintln(out, "all values match")
	} else {
		fmt.Fprintln(out, "some values do not match")
	}
	return nil
}

// relay forwards the messages of each handler to the other, until both are finished.
func relay(ctx context.Context, a, b protocol.Handler) error {
	if ctx == nil {
		ctx = context.Background()
	}
	g, ctx := errgroup.WithContext(ctx)
	forward := func(from, to protocol.Handler) func() error {
		return func() error {
			for {
				select {
				case msg, ok := <-from.Listen():
					if !ok {
						return nil
					}
					to.Accept(msg)
				case <-ctx.Done():
					from.Stop()
					return ctx.Err()
				}
			}
		}
	}
	g.Go(forward(a, b))
	g.Go(forward(b, a))
	return g.Wait()
}

func toBytes(values []string) [][]byte {
	out := make([][]byte, len(values))
	for i, v := range values {
		out[i] = []byte(v)
	}
	return out
}
