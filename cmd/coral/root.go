package main

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	coral "github.com/coralledger/coral-go"
	"github.com/coralledger/coral-go/graphql"
	"github.com/coralledger/coral-go/jsonrpc"
	"github.com/coralledger/coral-go/local"
	"github.com/coralledger/coral-go/types"
)

func rootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("CORAL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "coral",
		Short:         "Query a Coral backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if v.GetBool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("endpoint", "http://127.0.0.1:9000", "backend endpoint URL")
	flags.Bool("graphql", false, "speak GraphQL instead of JSON-RPC")
	flags.Bool("local", false, "use the built-in in-memory ledger (demo mode)")
	flags.Bool("verbose", false, "enable debug logging")
	for _, name := range []string{"endpoint", "graphql", "local", "verbose"} {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			log.Fatal().Err(err).Str("flag", name).Msg("bind flag")
		}
	}

	newClient := func() *coral.Client {
		switch {
		case v.GetBool("local"):
			return coral.NewClient(local.New(demoLedger()))
		case v.GetBool("graphql"):
			return coral.NewClient(graphql.New(v.GetString("endpoint")))
		default:
			return coral.NewClient(jsonrpc.New(v.GetString("endpoint")))
		}
	}

	cmd.AddCommand(
		balanceCmd(newClient),
		balancesCmd(newClient),
		objectCmd(newClient),
		checkpointCmd(newClient),
		checkpointsCmd(newClient),
		txCmd(newClient),
		waitCmd(newClient),
		systemStateCmd(newClient),
		watchCmd(newClient),
	)
	return cmd
}

// demoLedger seeds a small deterministic chain for --local mode.
func demoLedger() *local.Ledger {
	l := local.NewLedger(local.WithValidators([]types.ValidatorSummary{
		{Address: types.Address("0x" + strings.Repeat("11", 32)), Name: "reef-one", VotingPower: "3333", GasPrice: "1000", StakingPoolBalance: "30000000000000"},
		{Address: types.Address("0x" + strings.Repeat("22", 32)), Name: "reef-two", VotingPower: "3333", GasPrice: "1000", StakingPoolBalance: "30000000000000"},
		{Address: types.Address("0x" + strings.Repeat("33", 32)), Name: "reef-three", VotingPower: "3334", GasPrice: "1100", StakingPoolBalance: "40000000000000"},
	}))
	owner := types.Address("0x" + strings.Repeat("aa", 32))
	l.SeedCoin(owner, local.GasCoinType, 5_000_000_000)
	l.SeedCoin(owner, local.GasCoinType, 2_500_000_000)
	l.SeedCoin(owner, "0x7::reef::REEF", 42_000)
	l.SeedObject(owner, "0x3::staking_pool::StakedCoral", []byte(`{"principal":"1000000000"}`))
	l.RecordTransaction(owner, "ZGVtbw==", nil)
	l.SealCheckpoint()
	l.RecordTransaction(owner, "ZGVtbzI=", nil)
	l.SealCheckpoint()
	return l
}
