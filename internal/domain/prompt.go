package domain

import (
	"fmt"
	"strings"
	"text/template"

	m "github.com/mouse-blink/optilabel/internal/model"
)

var classificationTemplate = template.Must(template.New("classification").Parse(`
## USER: {{.Instruction}}
## provided text:
{{.Example}}
## Assistant:
{{.Reply}}
## USER: {{.Instruction}}
{{.Target}}
## Assistant:
`))

type classificationPrompt struct {
	Instruction string
	Example     string
	Reply       string
	Target      string
}

// BuildClassificationPrompt renders the few-shot labeling prompt: a worked
// example (tokens and their tagged reply) followed by the target tokens.
func BuildClassificationPrompt(example, reply, target string) (string, error) {
	var b strings.Builder

	err := classificationTemplate.Execute(&b, classificationPrompt{
		Instruction: classificationInstruction(),
		Example:     example,
		Reply:       reply,
		Target:      target,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render classification prompt: %w", err)
	}

	return b.String(), nil
}

func classificationInstruction() string {
	parts := make([]string, 0, len(m.Labels()))
	for _, label := range m.Labels() {
		parts = append(parts, fmt.Sprintf("%s refered to using the label '%s'", label.Description(), label))
	}

	return "the following text is an example of a text description of a problem that requires optimization " +
		"your role is to classify each word should be classified into one of the following: (" +
		strings.Join(parts, ", ") +
		") answer in the format 'word _ _ classification label' for each word in the provided text"
}

// BuildSolvingPrompt wraps a problem description in the solving instructions.
func BuildSolvingPrompt(problem string) string {
	question := "The task at hand is understanding the following optimization problem and transforming it " +
		"into an optimization equation as python code which utilizes the pulp library, the problem is as follows:\n" +
		problem + "\n"

	return "Task: " + question +
		"Output: Let's analyze the provided optimization function, then generate the equation and rewrite it " +
		"as python code making sure to keep the answers concise and logical i.e avoiding answers like " +
		"0.5 phones, people. etc..\n"
}
