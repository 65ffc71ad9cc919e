package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetAnalyzeConfig returns the AI configuration for the CV analysis operation
// with fallback to global config
func (c *Config) GetAnalyzeConfig() OperationAIConfig {
	config := c.AI.Analyze

	// Apply common defaults
	c.applyOperationDefaults(&config)

	// Apply analyze-specific prompt fallbacks
	if config.CustomPrompts.SystemPrompts.AnalyzeCV == "" {
		config.CustomPrompts.SystemPrompts.AnalyzeCV = c.AI.CustomPrompts.SystemPrompts.AnalyzeCV
	}
	if config.CustomPrompts.UserPrompts.AnalyzeCV == "" {
		config.CustomPrompts.UserPrompts.AnalyzeCV = c.AI.CustomPrompts.UserPrompts.AnalyzeCV
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.AnalyzeCVFile == "" {
		config.CustomPrompts.SystemPrompts.AnalyzeCVFile = c.AI.CustomPrompts.SystemPrompts.AnalyzeCVFile
	}
	if config.CustomPrompts.UserPrompts.AnalyzeCVFile == "" {
		config.CustomPrompts.UserPrompts.AnalyzeCVFile = c.AI.CustomPrompts.UserPrompts.AnalyzeCVFile
	}

	return config
}

// GetLoadedAnalyzePrompts returns a copy of the loaded prompts for the analysis operation
func (c *Config) GetLoadedAnalyzePrompts() OperationLoadedPrompts {
	return getLoadedPromptsCopy().Analyze
}
