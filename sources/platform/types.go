package platform

type UsageCategory = string

const (
	CategoryChat     UsageCategory = "chat"
	CategoryAnalysis UsageCategory = "analysis"
)
