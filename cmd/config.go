package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"autocov.dev/pkg/autocov/internal/adapter"
	"autocov.dev/pkg/autocov/internal/domain"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "autocov"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."
	dotEnvFileName   = ".env"

	outputFlagName         = "output"
	verboseFlagName        = "verbose"
	logFileFlagName        = "log-file"
	runTargetFlagName      = "target"
	runMaxRoundsFlagName   = "max-rounds"
	runModelFlagName       = "model"
	runParallelFlagName    = "parallel"
	runYesFlagName         = "yes"
	runReviewFlagName      = "review"
	runInstallDepsFlagName = "install-deps"
	runSkipModelFlagName   = "skip-model-check"

	runTargetConfigKey      = "run.target"
	runMaxRoundsConfigKey   = "run.max_rounds"
	runModelConfigKey       = "run.model"
	runParallelConfigKey    = "run.parallel"
	runYesConfigKey         = "run.yes"
	runReviewConfigKey      = "run.review"
	runInstallDepsConfigKey = "run.install_deps"
	runSkipModelConfigKey   = "run.skip_model_check"

	llmAPIKeyKey       = "llm.api_key"
	llmBaseURLKey      = "llm.base_url"
	llmTimeoutKey      = "llm.timeout"
	llmSystemPromptKey = "llm.system_prompt"

	pythonInterpreterKey = "python.interpreter"
	pythonTimeoutKey     = "python.timeout"

	projectSourceDirKey = "project.source_dir"
	projectTestsDirKey  = "project.tests_dir"

	defaultReportsDir     = ".autocov-reports"
	defaultRunTarget      = 80.0
	defaultRunMaxRounds   = domain.DefaultMaxRounds
	defaultRunParallel    = 1
	defaultLLMTimeout     = time.Duration(0)
	defaultPythonTimeout  = time.Duration(0)
	groqAPIKeyEnv         = "GROQ_API_KEY"
	defaultPython         = adapter.DefaultPython
	defaultLLMBaseURL     = adapter.DefaultBaseURL
	defaultProjectSrcDir  = domain.DefaultSourceDir
	defaultProjectTestDir = domain.DefaultTestsDir

	envPrefix = "AUTOCOV"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".autocov.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	// Runs before the dependencies in root.go read their settings.
	loadDotEnv(filepath.Join(configFolderPath, dotEnvFileName))

	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputFlagName, defaultReportsDir)

	viper.SetDefault(runTargetConfigKey, defaultRunTarget)
	viper.SetDefault(runMaxRoundsConfigKey, defaultRunMaxRounds)
	viper.SetDefault(runModelConfigKey, domain.DefaultModel)
	viper.SetDefault(runParallelConfigKey, defaultRunParallel)
	viper.SetDefault(runYesConfigKey, false)
	viper.SetDefault(runReviewConfigKey, false)
	viper.SetDefault(runInstallDepsConfigKey, false)
	viper.SetDefault(runSkipModelConfigKey, false)

	viper.SetDefault(llmBaseURLKey, defaultLLMBaseURL)
	viper.SetDefault(llmTimeoutKey, int64(defaultLLMTimeout.Seconds()))
	viper.SetDefault(llmSystemPromptKey, "")
	_ = viper.BindEnv(llmAPIKeyKey, envPrefix+"_LLM_API_KEY", groqAPIKeyEnv)

	viper.SetDefault(pythonInterpreterKey, defaultPython)
	viper.SetDefault(pythonTimeoutKey, int64(defaultPythonTimeout.Seconds()))

	viper.SetDefault(projectSourceDirKey, defaultProjectSrcDir)
	viper.SetDefault(projectTestsDirKey, defaultProjectTestDir)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

// loadDotEnv exports the variables of a .env file without overriding the
// environment. A missing file is not an error.
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Loading .env file failed", "path", path, "error", err)
	}
}

// secondsSetting reads an integer number of seconds; zero or less means none.
func secondsSetting(key string) time.Duration {
	seconds := viper.GetInt64(key)
	if seconds <= 0 {
		return 0
	}

	return time.Duration(seconds) * time.Second
}

// llmConfig is read when the client is first used, so flags and .env values
// loaded after init are honored.
func llmConfig() adapter.LLMConfig {
	return adapter.LLMConfig{
		APIKey:       strings.TrimSpace(viper.GetString(llmAPIKeyKey)),
		BaseURL:      viper.GetString(llmBaseURLKey),
		SystemPrompt: viper.GetString(llmSystemPromptKey),
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
