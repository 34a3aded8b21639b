package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/apimlint/apimlint/linter"
	"github.com/apimlint/apimlint/rules"
	"github.com/apimlint/apimlint/system"
)

const (
	readmeFile  = "rules/README.md"
	startMarker = "<!-- START LINT RULES -->"
	endMarker   = "<!-- END LINT RULES -->"
)

func main() {
	if err := updateLintDocs(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func updateLintDocs() error {
	fmt.Println("🔄 Updating lint rules in README...")

	if _, err := os.Stat(readmeFile); os.IsNotExist(err) {
		fmt.Printf("⚠️  No README file found: %s\n", readmeFile)
		return nil
	}

	registry, err := rules.NewRegistry()
	if err != nil {
		return fmt.Errorf("failed to build rule registry: %w", err)
	}

	fsys := &system.FileSystem{}
	data, err := fsys.ReadFile(readmeFile)
	if err != nil {
		return err
	}
	updated, err := replaceBetweenMarkers(string(data), generateRulesTable(linter.NewDocGenerator(registry)))
	if err != nil {
		return err
	}
	if err := fsys.WriteFile(readmeFile, []byte(updated), 0o600); err != nil {
		return err
	}

	fmt.Printf("✅ Updated %s\n", readmeFile)
	return nil
}

func generateRulesTable(docGen *linter.DocGenerator) string {
	docs := docGen.GenerateAllRuleDocs()
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ID < docs[j].ID
	})

	var content strings.Builder
	content.WriteString("| Rule | Category | Severity | Rulesets | Description |\n")
	content.WriteString("|------|----------|----------|----------|-------------|\n")
	for _, doc := range docs {
		desc := strings.ReplaceAll(doc.Description, "|", "\\|")
		desc = strings.ReplaceAll(desc, "\n", " ")
		fmt.Fprintf(&content, "| <a name=\"%s\"></a>`%s` | %s | %s | %s | %s |\n",
			doc.ID, doc.ID, doc.Category, doc.DefaultSeverity, strings.Join(doc.Rulesets, ", "), desc)
	}
	return content.String()
}

func replaceBetweenMarkers(content, table string) (string, error) {
	startIdx := strings.Index(content, startMarker)
	endIdx := strings.Index(content, endMarker)
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return "", fmt.Errorf("could not find lint rules markers in %s", readmeFile)
	}
	before := content[:startIdx+len(startMarker)]
	after := content[endIdx:]
	return before + "\n\n" + table + "\n" + after, nil
}
