package content

import (
	"math/rand/v2"
	"strings"
)

const topicPlaceholder = "{topic}"

// Article 模板生成的文章
type Article struct {
	Title    string
	Content  string
	Excerpt  string
	Category string
	Tags     string
}

// Picker 从 [0,n) 中选择模板下标
type Picker func(n int) int

type articleTemplate struct {
	title   string
	content string
	excerpt string
}

var articleTemplates = []articleTemplate{
	{
		title: "Breaking: {topic} - What You Need to Know",
		content: `In recent developments, {topic} has become a major talking point. Industry experts are closely monitoring the situation as it continues to evolve.

## Key Points

Recent analysis shows significant movement in this area. Stakeholders across various sectors are paying close attention to how this develops.

The implications could be far-reaching, affecting multiple aspects of the industry. Experts suggest that this trend is likely to continue in the coming weeks.

## What This Means

For those following this story, it's important to stay informed about the latest developments. The situation remains fluid, and new information continues to emerge.

## Looking Ahead

As the story develops, we'll continue to provide updates and analysis. Stay tuned for more information as it becomes available.`,
		excerpt: "Latest updates and analysis on {topic}. Stay informed with our comprehensive coverage.",
	},
	{
		title: "{topic}: Complete Guide and Analysis",
		content: `Understanding {topic} has become increasingly important in today's fast-paced environment. This comprehensive guide breaks down everything you need to know.

## Overview

{topic} represents a significant development that's worth understanding in depth. Here's what you should know about this evolving situation.

## Expert Insights

Industry professionals have weighed in on {topic}, offering valuable perspectives on its implications and potential outcomes.

## Impact Assessment

The effects of {topic} are being felt across multiple sectors. Organizations are adapting their strategies to account for these changes.

## Conclusion

As {topic} continues to develop, staying informed is crucial. We'll keep you updated with the latest news and analysis.`,
		excerpt: "Everything you need to know about {topic} - expert analysis and insights.",
	},
	{
		title: "{topic} Update: Latest Developments and Trends",
		content: `The landscape surrounding {topic} is constantly evolving. Here's your latest update on the most important developments.

## Recent Changes

New information has emerged regarding {topic}, shedding light on its current state and future trajectory.

## Market Response

The response to {topic} has been significant, with various stakeholders adjusting their approaches accordingly.

## Future Outlook

Looking ahead, {topic} is expected to remain a key focus area. Experts predict continued interest and development.

## Stay Connected

Follow our coverage for ongoing updates about {topic} and related developments.`,
		excerpt: "Stay up to date with the latest on {topic} - trends, analysis, and expert commentary.",
	},
}

// RandomPicker 默认随机选择器
func RandomPicker(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.IntN(n)
}

// GenerateArticle 用话题填充随机模板
// category 为空时使用 Technology
func GenerateArticle(topic, category string, pick Picker) Article {
	if pick == nil {
		pick = RandomPicker
	}
	idx := pick(len(articleTemplates))
	if idx < 0 || idx >= len(articleTemplates) {
		idx = 0
	}
	tpl := articleTemplates[idx]
	if strings.TrimSpace(category) == "" {
		category = "Technology"
	}
	return Article{
		Title:    fill(tpl.title, topic),
		Content:  fill(tpl.content, topic),
		Excerpt:  fill(tpl.excerpt, topic),
		Category: category,
		Tags:     topic + ",News,Analysis,Trending",
	}
}

func fill(text, topic string) string {
	return strings.ReplaceAll(text, topicPlaceholder, topic)
}
