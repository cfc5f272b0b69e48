// Package main implements a standalone seed script that populates a running
// marketplace instance with test accounts and items through the public API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func httpPost(url, token string, body any) (map[string]any, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return envelope.Data, nil
}

var itemNames = []string{
	"Mechanical keyboard", "Vintage desk lamp", "Road bike", "Espresso grinder",
	"Noise-cancelling headphones", "Standing desk", "Film camera", "Cast iron pan",
	"Wool blanket", "Record player",
}

var brands = []string{"Acme", "Northwind", "Fabrikam", "Contoso", "Globex"}

func main() {
	baseURL := getEnv("API_URL", "http://localhost:8080")
	userCount := 5
	itemsPerUser := 4

	for i := 0; i < userCount; i++ {
		email := fmt.Sprintf("seed-user-%d@example.com", i)
		password := "seed-password"

		_, err := httpPost(baseURL+"/api/v1/users", "", map[string]any{
			"email":    email,
			"password": password,
			"name":     fmt.Sprintf("Seed User %d", i),
			"age":      25 + i,
			"birthday": fmt.Sprintf("199%d-0%d-1%d", i%10, i%9+1, i%2),
		})
		if err != nil {
			log.Printf("register %s: %v (may already exist)", email, err)
		}

		login, err := httpPost(baseURL+"/api/v1/auth/login", "", map[string]string{
			"email":    email,
			"password": password,
		})
		if err != nil {
			log.Fatalf("login %s: %v", email, err)
		}
		token, _ := login["access_token"].(string)

		for j := 0; j < itemsPerUser; j++ {
			name := itemNames[rand.Intn(len(itemNames))]
			_, err := httpPost(baseURL+"/api/v1/items", token, map[string]any{
				"name":        name,
				"brand":       brands[rand.Intn(len(brands))],
				"description": fmt.Sprintf("%s in good condition", name),
				"price":       (rand.Intn(500) + 1) * 100,
				"stock":       rand.Intn(10) + 1,
			})
			if err != nil {
				log.Printf("create item for %s: %v", email, err)
			}
		}

		log.Printf("seeded %s with %d items", email, itemsPerUser)
	}

	log.Println("seeding complete")
}
