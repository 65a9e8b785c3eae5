package orgai

// Role identifies a conversation speaker.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one conversation message.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Directive is a fully resolved conversation: optional system text plus
// ordered turns alternating strictly between user and assistant.
type Directive struct {
	System string `json:"system,omitempty"`
	Turns  []Turn `json:"turns"`
}

// LangLLM is the source-block language executed by the SDK.
const LangLLM = "llm"

// Block is an immutable snapshot of one source block found in a document.
type Block struct {
	Pos    int
	Name   string
	Lang   string
	Params map[string]string
	Body   string
	Result *string
}

// HasResult reports whether a results section is attached to the block.
// An empty results section and a missing one are distinct states.
func (b Block) HasResult() bool { return b.Result != nil }

// Session returns the block's session identifier, empty when undeclared.
func (b Block) Session() string { return b.Params["session"] }

// Turns is the block's conversational contribution: the body as a user
// turn, then an assistant turn carrying the result. A missing result
// still yields an assistant turn with empty content so session
// histories keep their alternation.
func (b Block) Turns() []Turn {
	result := ""
	if b.Result != nil {
		result = *b.Result
	}
	return []Turn{
		{Role: RoleUser, Content: b.Body},
		{Role: RoleAssistant, Content: result},
	}
}
