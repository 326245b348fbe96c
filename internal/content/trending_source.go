package content

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTrendingTopics 内置话题清单
var DefaultTrendingTopics = []string{
	"artificial intelligence breakthrough",
	"climate change news",
	"technology trends 2026",
	"space exploration latest",
	"health and wellness tips",
	"cryptocurrency updates",
	"social media news",
	"cybersecurity threats",
}

type topicFile struct {
	Topics []string `yaml:"topics"`
}

// LoadTrendingTopics 读取话题来源
// path 为空时返回内置清单
func LoadTrendingTopics(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return append([]string(nil), DefaultTrendingTopics...), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trending source: %w", err)
	}
	var file topicFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse trending source: %w", err)
	}
	topics := make([]string, 0, len(file.Topics))
	seen := make(map[string]struct{}, len(file.Topics))
	for _, topic := range file.Topics {
		topic = strings.TrimSpace(topic)
		if topic == "" {
			continue
		}
		if _, ok := seen[topic]; ok {
			continue
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("trending source %s has no topics", path)
	}
	return topics, nil
}

// Shuffler 打乱切片顺序
type Shuffler func(n int, swap func(i, j int))

// PickTopics 打乱后取前 take 个
func PickTopics(source []string, take int, shuffle Shuffler) []string {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	picked := append([]string(nil), source...)
	shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	if take > 0 && take < len(picked) {
		picked = picked[:take]
	}
	return picked
}
