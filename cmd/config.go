package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "tafscan"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName    = "output"
	excludeFlagName   = "exclude"
	ignoreFlagName    = "ignore"
	parallelFlagName  = "parallel"
	failUnderFlagName = "fail-under"
	suggestFlagName   = "suggest"
	tuiFlagName       = "tui"
	verboseFlagName   = "verbose"
	logFileFlagName   = "log-file"

	outputConfigKey    = "analyze.output"
	parallelConfigKey  = "analyze.parallel"
	failUnderConfigKey = "analyze.fail_under"
	suggestConfigKey   = "analyze.suggest"
	excludeConfigKey   = "checks.exclude"
	ignoreConfigKey    = "paths.ignore"
	tuiConfigKey       = "ui.tui"

	defaultOutput    = ""
	defaultParallel  = 0
	defaultFailUnder = 0
	defaultSuggest   = false
	defaultTUI       = false

	envPrefix = "TAFSCAN"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".tafscan.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var (
	globalLogger *slog.Logger
	// configReadErr holds a tafscan.yaml that exists but could not be read;
	// it is logged once the logger is up.
	configReadErr error
)

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	setConfigDefaults()

	configReadErr = readConfigFile()
}

func setConfigDefaults() {
	viper.SetDefault(configVersionKey, currentConfigVersion)

	viper.SetDefault(outputConfigKey, defaultOutput)
	viper.SetDefault(parallelConfigKey, defaultParallel)
	viper.SetDefault(failUnderConfigKey, defaultFailUnder)
	viper.SetDefault(suggestConfigKey, defaultSuggest)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(ignoreConfigKey, []string{})
	viper.SetDefault(tuiConfigKey, defaultTUI)

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

// readConfigFile loads tafscan.yaml. A missing file is not an error: flags,
// environment and defaults still apply.
func readConfigFile() error {
	err := viper.ReadInConfig()

	var notFound viper.ConfigFileNotFoundError
	if err == nil || errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("read %s: %w", configFileName, err)
}

// parseSlogLevel accepts slog level names in any case, "warning", and
// numeric levels such as -4.
func parseSlogLevel(value string, fallback slog.Level) slog.Level {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}

	if n, err := strconv.Atoi(value); err == nil {
		return slog.Level(n)
	}

	if strings.EqualFold(value, "warning") {
		value = "warn"
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return fallback
	}

	return level
}

// configureLogger points the default slog logger at a rotating log file.
// verbose forces Debug; otherwise log.level applies.
func configureLogger(logPath string, verbose bool) {
	logPath = strings.TrimSpace(logPath)
	if logPath == "" {
		logPath = defaultLogFilename
	}

	level := slog.LevelDebug
	if !verbose {
		level = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	rotating := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	globalLogger = slog.New(slog.NewTextHandler(rotating, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}))
	slog.SetDefault(globalLogger)

	if configReadErr != nil {
		slog.Warn("Ignoring unreadable config file", "error", configReadErr)
	}
}
