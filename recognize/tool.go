package recognize

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/tbxark/formflow/types"
)

const (
	extractValueToolName        = "extract_field_value"
	extractValueToolDescription = "Extract the value the user supplied for the requested form field."
)

type extractValueArgs struct {
	Found      bool    `json:"found" jsonschema:"required,description=Whether the user's message contains a value for the field"`
	Value      string  `json:"value" jsonschema:"description=The extracted value as plain text"`
	Confidence float64 `json:"confidence" jsonschema:"required,minimum=0,maximum=1,description=How confident the extraction is"`
}

// Tool is an LLM-backed recognizer: the model is forced to call a single
// extraction tool and the decoded arguments become one full-span TermMatch.
// It suits free-form fields where keyword scanning is too rigid.
type Tool struct {
	chatModel   model.ToolCallingChatModel
	toolInfo    *schema.ToolInfo
	field       string
	description string
}

func NewTool(chatModel model.ToolCallingChatModel, field, description string) (*Tool, error) {
	toolInfo, err := utils.GoStruct2ToolInfo[extractValueArgs](extractValueToolName, extractValueToolDescription)
	if err != nil {
		return nil, fmt.Errorf("convert tool info failed: %w", err)
	}
	return &Tool{
		chatModel:   chatModel,
		toolInfo:    toolInfo,
		field:       field,
		description: description,
	}, nil
}

func (r *Tool) Matches(ctx context.Context, input string) ([]types.TermMatch, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, nil
	}
	response, err := r.chatModel.Generate(ctx, r.buildPrompt(input),
		model.WithTools([]*schema.ToolInfo{r.toolInfo}),
		model.WithToolChoice(schema.ToolChoiceForced, r.toolInfo.Name),
	)
	if err != nil {
		return nil, fmt.Errorf("call model failed: %w", err)
	}
	if len(response.ToolCalls) == 0 {
		return nil, fmt.Errorf("no ToolCall found in model response: %s", response.Content)
	}
	var result extractValueArgs
	if err := sonic.UnmarshalString(response.ToolCalls[0].Function.Arguments, &result); err != nil {
		return nil, fmt.Errorf("parse ToolCall arguments failed: %w", err)
	}
	if !result.Found || result.Value == "" {
		return nil, nil
	}
	confidence := result.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = 1.0
	}
	start := strings.Index(input, trimmed)
	return []types.TermMatch{types.NewTermMatch(start, len(trimmed), confidence, result.Value)}, nil
}

func (r *Tool) buildPrompt(input string) []*schema.Message {
	systemPrompt := fmt.Sprintf(`You are an assistant for a form-filling robot.

The user is being asked for the %q field.
Field description: %s

Extract the value for this field from the user's message. If the message does
not supply a value for this field, report found=false. Do not invent values.

Call the %q tool with the result.`, r.field, r.description, extractValueToolName)

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(input),
	}
}

func (r *Tool) Help() string {
	if r.description != "" {
		return r.description
	}
	return "any text"
}
