package searx

// Instances is the subset of the searx.space instances document used to
// select an instance.
type Instances struct {
	Instances map[string]Instance `json:"instances"`
}

type Instance struct {
	NetworkType string            `json:"network_type"`
	HTTP        HTTP              `json:"http"`
	Timing      Timing            `json:"timing"`
	Engines     map[string]Engine `json:"engines"`
}

type HTTP struct {
	StatusCode int `json:"status_code"`
}

type Stats struct {
	Mean float64 `json:"mean"`
}

type SearchTiming struct {
	SuccessPercentage float64 `json:"success_percentage"`
	All               Stats   `json:"all"`
}

type Timing struct {
	Search   SearchTiming `json:"search"`
	SearchGo SearchTiming `json:"search_go"`
}

type Engine struct {
	ErrorRate int `json:"error_rate"`
}
