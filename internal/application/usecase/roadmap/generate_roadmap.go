package roadmap

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/careercompass/careercompass/internal/application/service"
	"github.com/careercompass/careercompass/internal/domain/roadmap"
	"github.com/careercompass/careercompass/pkg/logger"
)

// GenerateRoadmapUseCase asks the LLM to draft roadmap steps for a topic.
// The draft is only a suggestion: the caller still submits it through the
// regular create endpoint, which validates it like any hand-written roadmap.
type GenerateRoadmapUseCase struct {
	llm    service.LLMService
	logger logger.Logger
}

func NewGenerateRoadmapUseCase(llm service.LLMService, log logger.Logger) *GenerateRoadmapUseCase {
	return &GenerateRoadmapUseCase{llm: llm, logger: log}
}

type GenerateRoadmapInput struct {
	Title string
	Year  *int
}

type GenerateRoadmapOutput struct {
	Steps []roadmap.Step
}

var (
	fencedJSONRegex = regexp.MustCompile("```json\\s*([\\s\\S]*?)```")
	jsonArrayRegex  = regexp.MustCompile(`\[[\s\S]*\]`)
	jsonObjectRegex = regexp.MustCompile(`\{[\s\S]*\}`)
)

// extractJSON pulls a JSON payload out of an LLM reply, tolerating code
// fences and surrounding prose.
func extractJSON(raw string, objectWanted bool) string {
	if m := fencedJSONRegex.FindStringSubmatch(raw); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	re := jsonArrayRegex
	if objectWanted {
		re = jsonObjectRegex
	}
	if m := re.FindString(raw); m != "" {
		return m
	}
	return strings.TrimSpace(raw)
}

func (uc *GenerateRoadmapUseCase) buildPrompt(input GenerateRoadmapInput) string {
	audience := "general"
	if input.Year != nil {
		audience = fmt.Sprintf("year %d", *input.Year)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a roadmap for %q suitable for a %s student. Provide:\n", input.Title, audience)
	b.WriteString("- 2-3 specific steps to achieve proficiency in the topic.\n")
	b.WriteString("- Each step should have:\n")
	b.WriteString("  - A clear title (e.g., \"Learn HTML\").\n")
	b.WriteString("  - 2-3 concise bullet points describing key actions or concepts.\n")
	b.WriteString("  - An optional relevant link to a reputable resource (if applicable).\n")
	b.WriteString("- Return the response as a JSON array of objects with properties: title (string), bullets (array of strings), link (string, optional).\n")
	b.WriteString("- Ensure steps are practical, beginner-friendly, and relevant to the topic.\n")
	return b.String()
}

func (uc *GenerateRoadmapUseCase) fallbackSteps(title string) []roadmap.Step {
	return []roadmap.Step{
		{
			Title:   fmt.Sprintf("Step 1 for %s", title),
			Bullets: []string{"Learn basics", "Practice"},
		},
	}
}

func (uc *GenerateRoadmapUseCase) Execute(ctx context.Context, input GenerateRoadmapInput) (*GenerateRoadmapOutput, error) {
	raw, err := uc.llm.GenerateChatResponse(ctx, uc.buildPrompt(input))
	if err != nil {
		uc.logger.Error("LLM roadmap generation failed, returning fallback step", err,
			zap.String("title", input.Title))
		return &GenerateRoadmapOutput{Steps: uc.fallbackSteps(input.Title)}, nil
	}

	var steps []roadmap.Step
	if err := json.Unmarshal([]byte(extractJSON(raw, false)), &steps); err != nil {
		uc.logger.Warn("LLM returned undecodable steps, returning fallback step",
			zap.String("title", input.Title), zap.Error(err))
		return &GenerateRoadmapOutput{Steps: uc.fallbackSteps(input.Title)}, nil
	}

	valid := make([]roadmap.Step, 0, len(steps))
	for _, s := range steps {
		if s.Validate() == nil {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		uc.logger.Warn("LLM returned no usable steps, returning fallback step",
			zap.String("title", input.Title))
		return &GenerateRoadmapOutput{Steps: uc.fallbackSteps(input.Title)}, nil
	}

	return &GenerateRoadmapOutput{Steps: valid}, nil
}
