package approver

import (
	"encoding/json"
	"slices"

	"slackgate/internal/common"

	"github.com/slack-go/slack"
)

// MessagePayload is a user-supplied message template: optional text,
// optional blocks and any other top-level fields which pass through
// to the platform untouched. Three variants exist per gate (base,
// success, fail); a variant without content falls back to base
type MessagePayload struct {
	Text   string
	Blocks slack.Blocks
	Extra  map[string]json.RawMessage
}

func (p *MessagePayload) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*p = MessagePayload{Extra: map[string]json.RawMessage{}}
	for key, value := range fields {
		switch key {
		case "text":
			if err := json.Unmarshal(value, &p.Text); err != nil {
				return err
			}
		case "blocks":
			if err := json.Unmarshal(value, &p.Blocks); err != nil {
				return err
			}
		default:
			p.Extra[key] = value
		}
	}
	return nil
}

func (p MessagePayload) MarshalJSON() ([]byte, error) {
	fields := map[string]json.RawMessage{}
	for key, value := range p.Extra {
		fields[key] = value
	}
	if p.Text != "" {
		text, err := json.Marshal(p.Text)
		if err != nil {
			return nil, err
		}
		fields["text"] = text
	}
	if len(p.Blocks.BlockSet) > 0 {
		blocks, err := json.Marshal(p.Blocks)
		if err != nil {
			return nil, err
		}
		fields["blocks"] = blocks
	}
	return json.Marshal(fields)
}

// HasContent indicates whether this payload carries anything worth
// rendering; variants without content fall back to the base variant
func (p MessagePayload) HasContent() bool {
	return p.Text != "" || len(p.Blocks.BlockSet) > 0
}

// ParsePayload decodes a payload template from its JSON input; a
// malformed value isn't fatal, it falls back to an empty payload
// with a logged warning so the gate still renders its own content
func ParsePayload(name, raw string, serviceLogs chan<- common.ServiceLog) MessagePayload {
	payload := MessagePayload{}
	if raw == "" {
		return payload
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "failed to parse %s, using an empty payload: %s", name, err)
		return MessagePayload{}
	}
	return payload
}

// ParseBlocks decodes a JSON array of blocks; a malformed value
// falls back to an empty array with a logged warning
func ParseBlocks(name, raw string, serviceLogs chan<- common.ServiceLog) slack.Blocks {
	blocks := slack.Blocks{}
	if raw == "" || raw == "[]" {
		return blocks
	}
	if err := json.Unmarshal([]byte(raw), &blocks); err != nil {
		serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "failed to parse %s, using no blocks: %s", name, err)
		return slack.Blocks{}
	}
	return blocks
}

// resolvePayloadVariant returns the explicit variant when it has
// content and the base variant otherwise
func resolvePayloadVariant(explicit, base MessagePayload) MessagePayload {
	if explicit.HasContent() {
		return explicit
	}
	return base
}

// mergePayload returns the effective payload for sending: the
// template's own blocks (or a section synthesised from its text)
// followed by the system-rendered status blocks. The template value
// is never mutated and repeated merges with the same inputs yield
// structurally identical output
func mergePayload(payload MessagePayload, statusBlocks []slack.Block) MessagePayload {
	merged := MessagePayload{
		Text:  payload.Text,
		Extra: payload.Extra,
	}
	switch {
	case len(payload.Blocks.BlockSet) > 0:
		merged.Blocks.BlockSet = append(slices.Clone(payload.Blocks.BlockSet), statusBlocks...)
	case payload.Text != "":
		merged.Blocks.BlockSet = append([]slack.Block{
			slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", payload.Text, false, false), nil, nil),
		}, statusBlocks...)
	default:
		merged.Blocks.BlockSet = slices.Clone(statusBlocks)
	}
	return merged
}
