package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// loadPromptsFromFiles loads custom prompts from external files if file paths
// are specified, replacing the process-wide loaded prompt set.
func (c *Config) loadPromptsFromFiles() error {
	var all AllLoadedPrompts

	// Global prompts
	if err := loadSystemPrompts(&c.AI.CustomPrompts.SystemPrompts, &all.Global.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load global system prompts: %w", err)
	}
	if err := loadUserPrompts(&c.AI.CustomPrompts.UserPrompts, &all.Global.UserPrompts); err != nil {
		return fmt.Errorf("failed to load global user prompts: %w", err)
	}

	// Analyze operation prompts
	if err := loadSystemPrompts(&c.AI.Analyze.CustomPrompts.SystemPrompts, &all.Analyze.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load analyze system prompts: %w", err)
	}
	if err := loadUserPrompts(&c.AI.Analyze.CustomPrompts.UserPrompts, &all.Analyze.UserPrompts); err != nil {
		return fmt.Errorf("failed to load analyze user prompts: %w", err)
	}

	setLoadedPrompts(all)
	return nil
}

// ReloadPrompts re-reads all configured prompt files. Used by the prompt
// watcher when a file changes on disk.
func (c *Config) ReloadPrompts() error {
	return c.loadPromptsFromFiles()
}

// PromptFiles returns the set of prompt file paths configured for loading.
func (c *Config) PromptFiles() []string {
	candidates := []string{
		c.AI.CustomPrompts.SystemPrompts.AnalyzeCVFile,
		c.AI.CustomPrompts.UserPrompts.AnalyzeCVFile,
		c.AI.Analyze.CustomPrompts.SystemPrompts.AnalyzeCVFile,
		c.AI.Analyze.CustomPrompts.UserPrompts.AnalyzeCVFile,
	}

	var files []string
	seen := make(map[string]bool)
	for _, f := range candidates {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		files = append(files, f)
	}
	return files
}

// loadSystemPrompts loads system prompts from files if file paths are specified
func loadSystemPrompts(prompts *SystemPrompts, target *LoadedSystemPrompts) error {
	if prompts.AnalyzeCVFile != "" {
		content, err := loadPromptFromFile(prompts.AnalyzeCVFile, "system", "analyzeCv")
		if err != nil {
			return err
		}
		target.AnalyzeCV = content
	}
	return nil
}

// loadUserPrompts loads user prompts from files if file paths are specified
func loadUserPrompts(prompts *UserPrompts, target *LoadedUserPrompts) error {
	if prompts.AnalyzeCVFile != "" {
		content, err := loadPromptFromFile(prompts.AnalyzeCVFile, "user", "analyzeCv")
		if err != nil {
			return err
		}
		target.AnalyzeCV = content
	}
	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling
func loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s %s prompt file is empty: %s", promptType, operation, absPath)
	}

	return trimmed, nil
}
