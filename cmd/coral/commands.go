package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	coral "github.com/coralledger/coral-go"
	"github.com/coralledger/coral-go/types"
)

type clientFactory func() *coral.Client

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func balanceCmd(newClient clientFactory) *cobra.Command {
	var coinType string
	cmd := &cobra.Command{
		Use:   "balance <address>",
		Short: "Show the aggregated balance of one coin type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ct *string
			if coinType != "" {
				ct = &coinType
			}
			bal, err := newClient().GetBalance(cmd.Context(), args[0], ct)
			if err != nil {
				return err
			}
			return printJSON(bal)
		},
	}
	cmd.Flags().StringVar(&coinType, "coin-type", "", "coin type (defaults to the gas coin)")
	return cmd
}

func balancesCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "balances <address>",
		Short: "List balances across every coin type held by an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			balances, err := newClient().GetAllBalances(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Coin Type", "Coins", "Total Balance"})
			for _, b := range balances {
				t.AppendRow(table.Row{b.CoinType, b.CoinObjectCount, b.TotalBalance})
			}
			t.Render()
			return nil
		},
	}
}

func objectCmd(newClient clientFactory) *cobra.Command {
	var showContent bool
	cmd := &cobra.Command{
		Use:   "object <object-id>",
		Short: "Fetch one object by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().GetObject(cmd.Context(), args[0], &types.ObjectDataOptions{
				ShowType:    true,
				ShowOwner:   true,
				ShowContent: showContent,
			})
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
	cmd.Flags().BoolVar(&showContent, "content", false, "include object content")
	return cmd
}

func checkpointCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "checkpoint <sequence-number|digest>",
		Short: "Fetch one checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cp, err := newClient().GetCheckpoint(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cp)
		},
	}
}

func checkpointsCmd(newClient clientFactory) *cobra.Command {
	var (
		cursor     string
		limit      int
		descending bool
	)
	cmd := &cobra.Command{
		Use:   "checkpoints",
		Short: "List checkpoints as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cur *types.Cursor
			if cursor != "" {
				cur = &cursor
			}
			var lim *int
			if limit > 0 {
				lim = &limit
			}
			page, err := newClient().GetCheckpoints(cmd.Context(), cur, lim, descending)
			if err != nil {
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Seq", "Digest", "Epoch", "Txs", "Timestamp (ms)"})
			for _, cp := range page.Data {
				t.AppendRow(table.Row{cp.SequenceNumber, cp.Digest, cp.Epoch, len(cp.Transactions), cp.TimestampMs})
			}
			t.Render()
			if page.HasNextPage && page.NextCursor != nil {
				fmt.Fprintf(os.Stdout, "next cursor: %s\n", *page.NextCursor)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cursor, "cursor", "", "resume from this cursor")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (backend default when 0)")
	cmd.Flags().BoolVar(&descending, "descending", false, "newest first")
	return cmd
}

func txCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "tx <digest>",
		Short: "Fetch one transaction block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tb, err := newClient().GetTransactionBlock(cmd.Context(), args[0], &types.TransactionBlockOptions{
				ShowEffects:        true,
				ShowEvents:         true,
				ShowBalanceChanges: true,
			})
			if err != nil {
				return err
			}
			return printJSON(tb)
		},
	}
}

func waitCmd(newClient clientFactory) *cobra.Command {
	var (
		timeout time.Duration
		poll    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "wait <digest>",
		Short: "Poll until a transaction is visible",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			tb, err := newClient().WaitForTransaction(ctx, args[0], &coral.WaitOptions{
				Timeout:        timeout,
				PollInterval:   poll,
				RequestOptions: &types.TransactionBlockOptions{ShowEffects: true},
			})
			if err != nil {
				return err
			}
			return printJSON(tb)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", coral.DefaultWaitTimeout, "overall deadline")
	cmd.Flags().DurationVar(&poll, "poll", coral.DefaultWaitPollInterval, "interval between lookups")
	return cmd
}

func systemStateCmd(newClient clientFactory) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "system-state",
		Short: "Show the latest system state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := newClient().GetLatestSystemState(cmd.Context())
			if err != nil {
				return err
			}
			if full {
				return printJSON(st)
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendRows([]table.Row{
				{"Epoch", st.Epoch},
				{"Protocol Version", st.ProtocolVersion},
				{"Total Stake", st.TotalStake},
				{"Reference Gas Price", st.ReferenceGasPrice},
				{"Active Validators", len(st.ActiveValidators)},
				{"Committee Members", len(st.CommitteeMembers)},
				{"Safe Mode", st.SafeMode},
			})
			t.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "dump the full summary as JSON")
	return cmd
}

func watchCmd(newClient clientFactory) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream events until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			unsub, err := newClient().SubscribeEvent(ctx, types.EventFilter(filter), func(ev types.Event) {
				log.Info().
					Str("tx", string(ev.ID.TxDigest)).
					Str("type", ev.Type).
					Str("sender", string(ev.Sender)).
					Msg("event")
			})
			if err != nil {
				return err
			}
			<-ctx.Done()
			return unsub()
		},
	}
	cmd.Flags().StringVar(&filter, "filter", `{"All":[]}`, "event filter as JSON")
	return cmd
}
