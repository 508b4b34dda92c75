package models

// WeatherData is the flat weather record returned by the lookup service
type WeatherData struct {
	Adcode        string  `json:"adcode"`
	City          string  `json:"city"`
	Province      string  `json:"province"`
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	Weather       string  `json:"weather"`
	WindDirection string  `json:"wind_direction"`
	WindPower     string  `json:"wind_power"`
	ReportTime    string  `json:"report_time"`
}

// WeatherError is the structured error shape of the weather proxy
type WeatherError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}
