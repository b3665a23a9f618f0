package slackgate

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"slackgate/internal/approver"
	"slackgate/internal/cli"
	"slackgate/internal/common"
	"slackgate/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	cli.InitConfig("input")
	flags.AddToCommand(Command)
}

var flags cli.Flags = cli.Flags{
	{
		Name:         "approvers",
		DefaultValue: "",
		Usage:        "comma-separated list of user ids allowed to respond, leave empty to allow anyone in the channel",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "minimum-approval-count",
		DefaultValue: 1,
		Usage:        "number of distinct approvals required before the gate opens",
		Type:         cli.FlagTypeInteger,
	},
	{
		Name:         "channel-id",
		DefaultValue: "",
		Usage:        "id of the channel to post the approval message to, falls back to SLACK_CHANNEL_ID",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "base-message-ts",
		DefaultValue: "",
		Usage:        "timestamp of an existing message to update instead of posting a new one",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "custom-blocks",
		DefaultValue: "[]",
		Usage:        "JSON array of blocks appended to the default run context",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "base-message-payload",
		DefaultValue: "",
		Usage:        "JSON message template used while the gate is waiting",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "success-message-payload",
		DefaultValue: "",
		Usage:        "JSON message template used when the gate is approved, falls back to the base template",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "fail-message-payload",
		DefaultValue: "",
		Usage:        "JSON message template used when the gate is rejected or canceled, falls back to the base template",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "health-addr",
		DefaultValue: "",
		Usage:        "when set, exposes /healthz and /metrics endpoints on this address",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "log-level",
		DefaultValue: "info",
		Usage:        fmt.Sprintf("defines the log level, one of %v", common.LogLevels),
		Type:         cli.FlagTypeString,
	},
}

var Command = &cobra.Command{
	Use:     "slackgate",
	Short:   "Blocks a pipeline step until a quorum of humans approves it over Slack",
	Long:    "Posts an approval message with Approve/Reject controls to a Slack channel, waits for a quorum of distinct authorized responses delivered over socket mode, and exits 0 only when the request is accepted",
	Version: config.GetVersion(),
	PreRun: func(cmd *cobra.Command, args []string) {
		flags.BindViper(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cli.InitLogging(viper.GetString("log-level"))

		serviceLogs := make(chan common.ServiceLog, 64)
		common.StartServiceLogLoop(serviceLogs)

		runnerEnvironment, err := config.LoadRunnerEnvironment()
		if err != nil {
			return fmt.Errorf("failed to load runner environment: %w", err)
		}

		channelId := viper.GetString("channel-id")
		if channelId == "" {
			channelId = runnerEnvironment.ChannelId
		}

		approvers := []string{}
		for _, approverId := range strings.Split(viper.GetString("approvers"), ",") {
			if trimmed := strings.TrimSpace(approverId); trimmed != "" {
				approvers = append(approvers, trimmed)
			}
		}

		payloads := approver.GatePayloads{
			Base:    approver.ParsePayload("base-message-payload", viper.GetString("base-message-payload"), serviceLogs),
			Success: approver.ParsePayload("success-message-payload", viper.GetString("success-message-payload"), serviceLogs),
			Fail:    approver.ParsePayload("fail-message-payload", viper.GetString("fail-message-payload"), serviceLogs),
		}
		customBlocks := approver.ParseBlocks("custom-blocks", viper.GetString("custom-blocks"), serviceLogs)

		gateway := approver.NewSlackGateway(approver.NewSlackGatewayOpts{
			AppToken:    runnerEnvironment.SlackAppToken,
			BotToken:    runnerEnvironment.SlackBotToken,
			ServiceLogs: serviceLogs,
		})

		gate, err := approver.NewGate(approver.NewGateOpts{
			Approvers:    approvers,
			Channel:      channelId,
			CustomBlocks: customBlocks,
			Messenger:    gateway,
			Payloads:     payloads,
			Quorum:       viper.GetInt("minimum-approval-count"),
			Runner:       runnerEnvironment,
			ServiceLogs:  serviceLogs,
		})
		if err != nil {
			return fmt.Errorf("failed to create approval gate: %w", err)
		}
		logrus.Infof("approval gate created with correlation id[%s]", gate.Request.CorrelationId())

		if healthAddr := viper.GetString("health-addr"); healthAddr != "" {
			go func() {
				if err := approver.StartHealthServer(approver.StartHealthServerOpts{
					Addr:        healthAddr,
					Done:        make(chan common.Done),
					ServiceLogs: serviceLogs,
				}); err != nil {
					logrus.Warnf("health server stopped: %s", err)
				}
			}()
		}

		actions := make(chan approver.ActionEvent, 16)
		gateway.StartListening(actions)

		messageTs, err := gate.Open(viper.GetString("base-message-ts"))
		if err != nil {
			return fmt.Errorf("failed to open approval gate: %w", err)
		}
		if err := runnerEnvironment.WriteOutput("ts", messageTs); err != nil {
			logrus.Warnf("failed to export message timestamp: %s", err)
		}
		logrus.Infof("approval message ready with ts[%s], waiting for responses", messageTs)

		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

		outcome := gate.Run(actions, signals)
		switch outcome {
		case approver.OutcomeAccepted:
			logrus.Infof("approval gate accepted by %s", strings.Join(gate.Request.ApprovedBy(), ", "))
			return nil
		case approver.OutcomeRejected:
			return fmt.Errorf("approval request was rejected by %s", gate.Request.RejectedBy())
		default:
			return fmt.Errorf("approval request was canceled before the required approvals were received")
		}
	},
}
