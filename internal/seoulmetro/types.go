package seoulmetro

// arrivalResponse is the Seoul open-data realtimeStationArrival payload,
// trimmed to the fields the adapter reads.
type arrivalResponse struct {
	Result struct {
		Code    string `json:"CODE"`
		Message string `json:"MESSAGE"`
	} `json:"RESULT"`
	RealtimeArrivalList []upstreamTrain `json:"realtimeArrivalList"`
}

// resultCodeOK is the upstream's success code. Anything else is treated as
// a failed lookup.
const resultCodeOK = "INFO-000"

type upstreamTrain struct {
	SubwayID    string `json:"subwayId"`    // line number
	SubwayName  string `json:"subwayNm"`    // line name
	StationName string `json:"statnNm"`     // station name
	TrainLine   string `json:"trainLineNm"` // direction description
	Destination string `json:"bstatnNm"`    // terminal station
	ArrivalSecs string `json:"barvlDt"`     // seconds until arrival
	ArrivalMsg  string `json:"arvlMsg2"`    // human-readable countdown
	ArrivalCode string `json:"arvlCd"`      // 0 approaching .. 5 departed previous
	TrainStatus string `json:"btrainSttus"` // train class code
	ReceivedAt  string `json:"recptnDt"`    // upstream data timestamp
	UpDownLine  string `json:"updnLine"`    // 0 inner loop, 1 outer loop
}

// trainTypeNames maps btrainSttus codes to display names.
var trainTypeNames = map[string]string{
	"0": "일반",
	"1": "급행",
	"2": "특급",
	"3": "KTX",
	"4": "무궁화",
	"5": "새마을",
}

func trainTypeName(status string) string {
	if name, ok := trainTypeNames[status]; ok {
		return name
	}
	return "일반"
}
