package utils

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// RequestIDKey gin 上下文中请求 ID 的键
const RequestIDKey = "request_id"

// InitLogger 初始化全局日志：生产环境输出 JSON，开发环境输出文本；
// 配置了 logFile 时同时写入按大小轮转的日志文件
func InitLogger(env, level, logFile string) {
	if env == "production" {
		log.SetFormatter(&log.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)

	if logFile == "" {
		log.SetOutput(os.Stdout)
		return
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		log.SetOutput(os.Stdout)
		log.Warnf("无法创建日志目录 %s: %v", filepath.Dir(logFile), err)
		return
	}

	fileWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    50, // MB
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
	log.Infof("日志同时写入文件: %s", logFile)
}
