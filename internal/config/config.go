package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"inkboard/internal/document"
	"inkboard/internal/logger"
)

const FileName = ".inkboardrc"

// Config holds the settings read from the rc file.
type Config struct {
	SaveDirectory string
	CanvasWidth   float64
	CanvasHeight  float64
	StrokeColor   string
	StrokeWidth   float64
	FillColor     string
	FontSize      float64
	HistoryLimit  int
	LogFile       string
	LogLevel      logger.Level
	Confirmations bool
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		SaveDirectory: "",
		CanvasWidth:   800,
		CanvasHeight:  600,
		StrokeColor:   "#000000",
		StrokeWidth:   2,
		FillColor:     "transparent",
		FontSize:      20,
		HistoryLimit:  0,
		LogFile:       "",
		LogLevel:      logger.LevelInfo,
		Confirmations: true,
	}
}

// Load reads ~/.inkboardrc. A missing file yields the defaults.
func Load() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Default()
	}
	config, err := LoadFile(filepath.Join(homeDir, FileName))
	if err != nil {
		return Default()
	}
	return config
}

// LoadFile parses the config file at path.
func LoadFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads key = value lines. Blank lines and # comments are skipped, keys
// are case-insensitive and unknown keys or bad values are ignored.
func Parse(r io.Reader) (*Config, error) {
	config := Default()
	homeDir, _ := os.UserHomeDir()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "savedirectory", "save_directory", "savedir":
			config.SaveDirectory = expandPath(value, homeDir)
		case "canvaswidth", "canvas_width", "width":
			setCanvasSide(&config.CanvasWidth, value)
		case "canvasheight", "canvas_height", "height":
			setCanvasSide(&config.CanvasHeight, value)
		case "strokecolor", "stroke_color", "stroke":
			if value != "" {
				config.StrokeColor = value
			}
		case "strokewidth", "stroke_width":
			setPositive(&config.StrokeWidth, value)
		case "fillcolor", "fill_color", "fill":
			if value != "" {
				config.FillColor = value
			}
		case "fontsize", "font_size":
			setPositive(&config.FontSize, value)
		case "historylimit", "history_limit", "undo_limit":
			if n, err := strconv.Atoi(value); err == nil && n >= 0 {
				config.HistoryLimit = n
			}
		case "logfile", "log_file":
			config.LogFile = expandPath(value, homeDir)
		case "loglevel", "log_level":
			if level, ok := logger.ParseLevel(value); ok {
				config.LogLevel = level
			}
		case "confirmations", "confirm":
			config.Confirmations = strings.ToLower(value) == "true"
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return config, nil
}

func setPositive(dst *float64, value string) {
	if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
		*dst = f
	}
}

// setCanvasSide accepts sizes up to document.MaxCanvasSide.
func setCanvasSide(dst *float64, value string) {
	if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 && f <= document.MaxCanvasSide {
		*dst = f
	}
}

// ExpandHome resolves a leading ~ and makes the path absolute.
func ExpandHome(path string) string {
	homeDir, _ := os.UserHomeDir()
	return expandPath(path, homeDir)
}

func expandPath(value, homeDir string) string {
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "~") && homeDir != "" {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

// SavePath resolves a file name against the save directory, creating it.
func (c *Config) SavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}
