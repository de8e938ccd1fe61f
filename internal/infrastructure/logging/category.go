package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	IO              Category = "IO"
	Internal        Category = "Internal"
	Config          Category = "Config"
	Tracing         Category = "Tracing"
	RequestResponse Category = "RequestResponse"
	Prometheus      Category = "Prometheus"
)

const (
	// General
	Startup      SubCategory = "Startup"
	Shutdown     SubCategory = "Shutdown"
	RateLimiting SubCategory = "RateLimiting"
	Readiness    SubCategory = "Readiness"

	// RequestResponse
	Api       SubCategory = "Api"
	Rendering SubCategory = "Rendering"
	Recovery  SubCategory = "Recovery"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	Version      ExtraKey = "Version"
	Environment  ExtraKey = "Environment"
	RequestID    ExtraKey = "RequestId"
	ClientIp     ExtraKey = "ClientIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	BodySize     ExtraKey = "BodySize"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	Address      ExtraKey = "Address"
	Signal       ExtraKey = "Signal"
	ErrorMessage ExtraKey = "ErrorMessage"
)

const (
	categoryKey    = "Category"
	subCategoryKey = "SubCategory"
)
