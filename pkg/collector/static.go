package collector

import (
	"fmt"
	"os"

	"github.com/xhad/kbase/internal/models"
	"gopkg.in/yaml.v3"
)

// ProjectDocuments are the curated documents about the platform itself.
func ProjectDocuments() []models.Document {
	return []models.Document{
		{
			Content: "AFRIWORK is a modern, full-stack freelancer marketplace platform " +
				"built with React, TypeScript, and Supabase. It empowers clients to " +
				"post projects, discover top freelancers, and manage collaborations—" +
				"all in a beautiful, intuitive interface.",
			Metadata: models.Metadata{"category": "project", "tags": []string{"overview", "afriwork"}},
		},
		{
			Content: "Key features: Client & Freelancer Dashboards, Project Posting, " +
				"Freelancer Discovery, One-Click Applications, Secure Auth & Profiles, " +
				"Live Data, Modern UI/UX.",
			Metadata: models.Metadata{"category": "project", "tags": []string{"features"}},
		},
		{
			Content: "The tech stack includes: Frontend (React, TypeScript, Vite, " +
				"Tailwind CSS), Backend (Supabase), State & Data (React Context, " +
				"Custom Hooks, Supabase Client), UI Components (Custom, accessible, " +
				"and beautiful).",
			Metadata: models.Metadata{"category": "project", "tags": []string{"tech stack"}},
		},
		{
			Content:  "The colour of the mernas is yellow.",
			Metadata: models.Metadata{"category": "test", "tags": []string{"mernas", "colour"}},
		},
		{
			Content:  "The secret code for Mercy Shop is: PURPLE-UNICORN-42.",
			Metadata: models.Metadata{"category": "test", "tags": []string{"secret", "code"}},
		},
		{
			Content: "To reset your password in Mercy Shop, you need to write an email to " +
				"the ceo: aronidengeno@gmail.com",
			Metadata: models.Metadata{"category": "auth", "tags": []string{"password", "reset"}},
		},
		{
			Content: "How to post a job on Mercy Shop:\n" +
				"1. Enter the job title.\n" +
				"2. Provide a detailed job description.\n" +
				"3. List the required skills (up to 6).\n" +
				"4. Specify the minimum and maximum budget.\n" +
				"5. Set the deadline for the job.\n" +
				"6. Choose the required experience level (junior, mid, senior, expert).\n" +
				"After collecting all this information, Mercy Shop will generate a professional job post summary for you to review and confirm before posting.\n" +
				"Do not mention other platforms or generic job posting advice—always use the Mercy Shop workflow.",
			Metadata: models.Metadata{"category": "workflow", "tags": []string{"job posting", "mercy shop", "instructions"}},
		},
	}
}

type documentFile struct {
	Documents []struct {
		Content  string                 `yaml:"content"`
		Metadata map[string]interface{} `yaml:"metadata"`
	} `yaml:"documents"`
}

// LoadDocumentsFile reads extra curated documents from a YAML file of the form
//
//	documents:
//	  - content: "..."
//	    metadata: {category: faq, tags: [billing]}
func LoadDocumentsFile(path string) ([]models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading documents file: %w", err)
	}

	var file documentFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing documents file: %w", err)
	}

	docs := make([]models.Document, 0, len(file.Documents))
	for i, d := range file.Documents {
		if d.Content == "" {
			return nil, fmt.Errorf("document %d in %s has no content", i, path)
		}
		docs = append(docs, models.Document{Content: d.Content, Metadata: models.Metadata(d.Metadata)})
	}
	return docs, nil
}
