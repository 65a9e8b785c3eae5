package orgai

// ScanBlocks returns Block snapshots for every src block beginning
// strictly before upTo, in document order, with results attached.
func ScanBlocks(doc Document, upTo int) []Block {
	els := doc.Scan(upTo)
	blocks := make([]Block, 0, len(els))
	for _, el := range els {
		if el.Kind != ElementSrcBlock {
			continue
		}
		b := Block{
			Pos:    el.Pos,
			Name:   el.Name,
			Lang:   el.Lang,
			Params: el.Params,
			Body:   el.Text,
		}
		if b.Params == nil {
			b.Params = map[string]string{}
		}
		if res, ok := doc.ResultAt(el.Pos); ok {
			b.Result = &res
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// SessionBlocks filters ScanBlocks to blocks whose session parameter
// equals session exactly.
func SessionBlocks(doc Document, session string, upTo int) []Block {
	if session == "" {
		return nil
	}
	var blocks []Block
	for _, b := range ScanBlocks(doc, upTo) {
		if b.Session() == session {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// FindSession reconstructs a session's history into a directive: each
// matching block contributes its user/assistant turn pair. An unknown
// or empty session yields a directive with the system text and no
// turns.
func FindSession(doc Document, session, system string, upTo int) Directive {
	dir := Directive{System: system}
	for _, b := range SessionBlocks(doc, session, upTo) {
		dir.Turns = append(dir.Turns, b.Turns()...)
	}
	return dir
}

// FindPrompt resolves the first block named name into a directive: the
// body as a user turn, plus an assistant turn only when a result is
// attached. No match yields a directive with the system text alone.
func FindPrompt(doc Document, name, system string, upTo int) Directive {
	dir := Directive{System: system}
	if name == "" {
		return dir
	}
	for _, b := range ScanBlocks(doc, upTo) {
		if b.Name != name {
			continue
		}
		dir.Turns = append(dir.Turns, Turn{Role: RoleUser, Content: b.Body})
		if b.Result != nil {
			dir.Turns = append(dir.Turns, Turn{Role: RoleAssistant, Content: *b.Result})
		}
		break
	}
	return dir
}

// Sessions lists distinct session identifiers in first-appearance
// order.
func Sessions(doc Document, upTo int) []string {
	seen := map[string]bool{}
	var out []string
	for _, b := range ScanBlocks(doc, upTo) {
		s := b.Session()
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// PromptNames lists named blocks in first-appearance order.
func PromptNames(doc Document, upTo int) []string {
	seen := map[string]bool{}
	var out []string
	for _, b := range ScanBlocks(doc, upTo) {
		if b.Name == "" || seen[b.Name] {
			continue
		}
		seen[b.Name] = true
		out = append(out, b.Name)
	}
	return out
}
