package service

import (
	"context"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/unclebandit/mailpulse-backend/internal/ai"
	appErrors "github.com/unclebandit/mailpulse-backend/internal/errors"
	"github.com/unclebandit/mailpulse-backend/internal/model"
	"github.com/unclebandit/mailpulse-backend/internal/scraper"
)

const draftingSystemPrompt = "You are an AI email generator. Craft a concise, natural-sounding email for recruitment purposes. " +
	"Address the sender and use company data for context. Keep it short and direct. Start with a quote."

var draftPrompt = template.Must(template.New("draft").Parse(`
You are an AI email generator tasked with crafting a personalized email on behalf of an individual representing an organization.
Use the provided sender details to address the sender and consider incorporating the recipient's organization details ({{.Org.CompanyName}}) for context.
Remember, you are addressing the recipient as the 'recruitment team'.
Keep the tone natural, casual, and concise. Start the email with a relevant quote.

Sender Details:
- Name: {{.Sender.Name}}
- Position: {{.Sender.Position}}
- Organization: {{.Sender.Organization}}

Recipient Details:
- Company Name: {{.Org.CompanyName}}
- Website: {{.Org.Website}}
- Industry: {{.Org.Industry}}
- Specialties: {{.Org.Specialties}}
- Company Size: {{.Org.CompanySize}}

Purpose of the email: {{.Purpose}}

Avoid placeholders; this email will be sent directly.
`))

// DraftingService writes outreach emails from scraped company data. The
// generated text is returned as the provider produced it.
type DraftingService struct {
	Scraper scraper.Fetcher
	AI      ai.Completer
	Logger  *zap.Logger
}

type DraftInput struct {
	ProfileURL string               `json:"linkedinUrl" validate:"required"`
	Purpose    string               `json:"purpose" validate:"required"`
	Sender     *model.SenderDetails `json:"userData" validate:"required"`
}

func (s *DraftingService) Draft(ctx context.Context, in DraftInput) (string, error) {
	if err := validateInput(in); err != nil {
		return "", err
	}

	org, err := s.Scraper.FetchOrganization(ctx, in.ProfileURL)
	if err != nil {
		return "", appErrors.NewUpstream("scraper", err)
	}

	prompt, err := BuildDraftPrompt(*in.Sender, *org, in.Purpose)
	if err != nil {
		return "", err
	}

	text, err := s.AI.Complete(ctx, draftingSystemPrompt, prompt)
	if err != nil {
		return "", appErrors.NewUpstream("ai", err)
	}

	s.Logger.Info("draft generated", zap.String("company", org.CompanyName), zap.Int("length", len(text)))
	return text, nil
}

func BuildDraftPrompt(sender model.SenderDetails, org model.Organization, purpose string) (string, error) {
	var b strings.Builder
	err := draftPrompt.Execute(&b, struct {
		Sender  model.SenderDetails
		Org     model.Organization
		Purpose string
	}{sender, org, purpose})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
