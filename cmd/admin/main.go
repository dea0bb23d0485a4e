package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"magicResume/internal/aiconfig"
	"magicResume/internal/auth"
	"magicResume/internal/backend"
	"magicResume/internal/config"
	"magicResume/internal/directory"
	"magicResume/internal/resume"
)

func main() {
	var (
		hashPassword = flag.String("hash-password", "", "为给定密码生成 bcrypt 哈希，写入 AUTH_PASSWORD_HASH")
		generate     = flag.Bool("generate-password", false, "生成随机密码并输出其哈希")
		clearNS      = flag.String("clear", "", "删除某个命名空间的持久化状态（ai-config-storage、resume-storage 或 sync-directory）")
	)
	flag.Parse()

	switch {
	case *hashPassword != "":
		printHash(*hashPassword)
	case *generate:
		password, err := generateRandomPassword(24)
		if err != nil {
			log.Fatalf("generate password: %v", err)
		}
		fmt.Printf("密码: %s\n", password)
		printHash(password)
		fmt.Printf("提示：该密码仅显示一次。\n")
	case *clearNS != "":
		if err := clearNamespace(strings.TrimSpace(*clearNS)); err != nil {
			log.Fatalf("clear %q: %v", *clearNS, err)
		}
		fmt.Printf("已删除 %s\n", *clearNS)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func printHash(password string) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	fmt.Printf("AUTH_PASSWORD_HASH=%s\n", hashed)
}

// 同步目录的两个键总是成对删除。
func keysFor(namespace string) ([]string, error) {
	switch namespace {
	case aiconfig.Namespace, resume.Namespace:
		return []string{namespace}, nil
	case "sync-directory":
		return []string{directory.KeyHandle, directory.KeyPath}, nil
	default:
		return nil, fmt.Errorf("unknown namespace %q", namespace)
	}
}

func clearNamespace(namespace string) error {
	keys, err := keysFor(namespace)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Persist.Backend == config.BackendMemory {
		return fmt.Errorf("persist backend %q holds no durable state", cfg.Persist.Backend)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backends, err := backend.Open(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer backends.Close()

	for _, key := range keys {
		if err := backends.Store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %q: %w", key, err)
		}
	}
	return nil
}

func generateRandomPassword(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		bytesLen = 24
	}
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
