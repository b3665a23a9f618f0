package approver

import (
	"encoding/json"
	"testing"

	"slackgate/internal/common"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessagePayloadCodec(t *testing.T) {
	raw := `{"text":"deploy pending","username":"release-bot","icon_emoji":":rocket:","blocks":[{"type":"divider"}]}`

	payload := MessagePayload{}
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	assert.Equal(t, "deploy pending", payload.Text)
	assert.Len(t, payload.Blocks.BlockSet, 1)
	assert.Contains(t, payload.Extra, "username")
	assert.Contains(t, payload.Extra, "icon_emoji")
	assert.True(t, payload.HasContent())

	encoded, err := json.Marshal(payload)
	require.NoError(t, err)
	decoded := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Contains(t, decoded, "text")
	assert.Contains(t, decoded, "blocks")
	assert.JSONEq(t, `"release-bot"`, string(decoded["username"]))
	assert.JSONEq(t, `":rocket:"`, string(decoded["icon_emoji"]))
}

func TestMergePayload(t *testing.T) {
	blockA := slack.NewDividerBlock()
	blockB := slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", "status", false, false), nil, nil)
	statusBlocks := []slack.Block{blockA, blockB}

	t.Run("text only synthesises a leading section", func(t *testing.T) {
		merged := mergePayload(MessagePayload{Text: "hi"}, statusBlocks)
		require.Len(t, merged.Blocks.BlockSet, 3)
		section, ok := merged.Blocks.BlockSet[0].(*slack.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "hi", section.Text.Text)
		assert.Equal(t, blockA, merged.Blocks.BlockSet[1])
		assert.Equal(t, blockB, merged.Blocks.BlockSet[2])
	})

	t.Run("empty payload yields status blocks alone", func(t *testing.T) {
		merged := mergePayload(MessagePayload{}, statusBlocks)
		assert.Equal(t, statusBlocks, merged.Blocks.BlockSet)
	})

	t.Run("existing blocks are preserved and never mutated", func(t *testing.T) {
		blockX := slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", "custom", false, false))
		template := MessagePayload{Blocks: slack.Blocks{BlockSet: []slack.Block{blockX}}}
		merged := mergePayload(template, statusBlocks)
		require.Len(t, merged.Blocks.BlockSet, 3)
		assert.Equal(t, blockX, merged.Blocks.BlockSet[0])
		assert.Len(t, template.Blocks.BlockSet, 1, "caller's template must not be mutated")
	})

	t.Run("merge is idempotent", func(t *testing.T) {
		template := MessagePayload{Text: "hi"}
		first := mergePayload(template, statusBlocks)
		second := mergePayload(template, statusBlocks)
		assert.Equal(t, first, second)
	})

	t.Run("passthrough fields survive the merge", func(t *testing.T) {
		template := MessagePayload{Extra: map[string]json.RawMessage{"username": json.RawMessage(`"bot"`)}}
		merged := mergePayload(template, statusBlocks)
		assert.Equal(t, template.Extra, merged.Extra)
	})
}

func TestResolvePayloadVariant(t *testing.T) {
	base := MessagePayload{Text: "base"}
	assert.Equal(t, base, resolvePayloadVariant(MessagePayload{}, base))

	explicit := MessagePayload{Text: "explicit"}
	assert.Equal(t, explicit, resolvePayloadVariant(explicit, base))

	withBlocks := MessagePayload{Blocks: slack.Blocks{BlockSet: []slack.Block{slack.NewDividerBlock()}}}
	assert.Equal(t, withBlocks, resolvePayloadVariant(withBlocks, base))
}

func TestParsePayloadFallsBackOnMalformedInput(t *testing.T) {
	serviceLogs := common.GetNoopServiceLog()

	payload := ParsePayload("base-message-payload", `{"text":`, serviceLogs)
	assert.False(t, payload.HasContent())

	payload = ParsePayload("base-message-payload", "", serviceLogs)
	assert.False(t, payload.HasContent())

	payload = ParsePayload("base-message-payload", `{"text":"ok"}`, serviceLogs)
	assert.Equal(t, "ok", payload.Text)
}

func TestParseBlocksFallsBackOnMalformedInput(t *testing.T) {
	serviceLogs := common.GetNoopServiceLog()

	blocks := ParseBlocks("custom-blocks", `[{"type":`, serviceLogs)
	assert.Empty(t, blocks.BlockSet)

	blocks = ParseBlocks("custom-blocks", "[]", serviceLogs)
	assert.Empty(t, blocks.BlockSet)

	blocks = ParseBlocks("custom-blocks", `[{"type":"divider"}]`, serviceLogs)
	assert.Len(t, blocks.BlockSet, 1)
}
