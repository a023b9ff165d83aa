package roadmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/careercompass/careercompass/internal/application/service"
	"github.com/careercompass/careercompass/internal/domain/roadmap"
	"github.com/careercompass/careercompass/pkg/apperror"
	"github.com/careercompass/careercompass/pkg/logger"
)

// AssistUseCase answers a student's question in the context of one roadmap's
// steps.
type AssistUseCase struct {
	roadmapRepo roadmap.Repository
	llm         service.LLMService
	logger      logger.Logger
}

func NewAssistUseCase(rRepo roadmap.Repository, llm service.LLMService, log logger.Logger) *AssistUseCase {
	return &AssistUseCase{roadmapRepo: rRepo, llm: llm, logger: log}
}

type AssistInput struct {
	RoadmapID int64
	Query     string
}

type AssistOutput struct {
	Answer string
}

type assistReply struct {
	Answer string `json:"answer"`
}

func (uc *AssistUseCase) buildPrompt(rm *roadmap.Roadmap, query string) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant for students following a specific roadmap. ")
	b.WriteString("Provide concise, neutral, and beginner-friendly answers to the user's query based on the roadmap context below. ")
	b.WriteString("Focus on practical guidance related to the roadmap's steps. ")
	b.WriteString("Return the response as a JSON object with an \"answer\" property.\n\n")

	b.WriteString("Roadmap Context:\n")
	fmt.Fprintf(&b, "Roadmap Title: %s\n", rm.Title)
	if rm.Year != nil {
		fmt.Fprintf(&b, "Year: %d\n", *rm.Year)
	} else {
		b.WriteString("Year: General\n")
	}
	b.WriteString("Steps:\n")
	for i, step := range rm.Steps {
		fmt.Fprintf(&b, "%d. %s\n  - Bullets: %s\n", i+1, step.Title, strings.Join(step.Bullets, ", "))
		if step.Link != "" {
			fmt.Fprintf(&b, "  - Link: %s\n", step.Link)
		} else {
			b.WriteString("  - Link: None\n")
		}
	}

	b.WriteString("\nUser Query: ")
	b.WriteString(query)
	return b.String()
}

func (uc *AssistUseCase) Execute(ctx context.Context, input AssistInput) (*AssistOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, apperror.NewInvalidInput("query is required", nil)
	}

	rm, err := uc.roadmapRepo.FindByID(ctx, input.RoadmapID)
	if err != nil {
		if errors.Is(err, roadmap.ErrRoadmapNotFound) {
			return nil, apperror.NewNotFound("roadmap", itoa(input.RoadmapID))
		}
		return nil, apperror.NewInternal("failed to fetch roadmap", err)
	}

	raw, err := uc.llm.GenerateChatResponse(ctx, uc.buildPrompt(rm, input.Query))
	if err != nil {
		return nil, apperror.NewInternal("failed to generate assistant response", err)
	}

	var reply assistReply
	if err := json.Unmarshal([]byte(extractJSON(raw, true)), &reply); err != nil || reply.Answer == "" {
		// Some models skip the JSON wrapper; take the raw text rather than
		// failing the request.
		answer := strings.TrimSpace(raw)
		if answer == "" {
			return nil, apperror.NewInternal("assistant returned no answer", err)
		}
		return &AssistOutput{Answer: answer}, nil
	}

	return &AssistOutput{Answer: reply.Answer}, nil
}
