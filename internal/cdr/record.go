package cdr

import "time"

// timeLayout renders wall times as the pipeline expects them, UTC fields
// with locale-style weekday/month tokens: "14:19:13.745  UTC Wed Jun 18 2025".
const timeLayout = "15:04:05.000  UTC Mon Jan 02 2006"

// FormatUTC renders a timestamp in the CDR wall-time layout.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// Record is one call-detail record. Constructed fresh per call attempt,
// serialized and shipped immediately, never mutated afterwards. Pointer
// fields carry media-quality data that exists only for connected calls;
// failed attempts omit them from the JSON entirely.
//
// Wire key spellings (including "RoudTripDelay") follow the pipeline's
// ingest mapping and must not be corrected here.
type Record struct {
	RecordType      string `json:"recordType"`
	ProductName     string `json:"productName"`
	SetupTime       string `json:"setupTime"`
	GlobalSessionID string `json:"globalSessionId"`
	SessionID       string `json:"sessionId"`
	IsSuccess       string `json:"isSuccess"`

	ConnectTimeUTC string  `json:"connectTimeUTC"`
	ReleaseTimeUTC *string `json:"releaseTimeUTC,omitempty"`
	TimeToConnect  *int    `json:"timeToConnect,omitempty"`
	CallDuration   int     `json:"callDuration"`
	TimeZone       string  `json:"timeZone"`

	CallingUserBeforeManipulation string `json:"callingUserBeforeManipulation"`
	CallingUserAfterManipulation  string `json:"callingUserAfterManipulation"`
	CalledUserBeforeManipulation  string `json:"calledUserBeforeManipulation"`
	CalledUserAfterManipulation   string `json:"calledUserAfterManipulation"`

	IngressCallOrigin   string `json:"ingressCallOrigin"`
	EgressCallOrigin    string `json:"egressCallOrigin"`
	IngressCallSourceIP string `json:"ingressCallSourceIp"`
	EgressCallDestIP    string `json:"egressCallDestIp"`

	IngressTrmReason    string `json:"ingressTrmReason"`
	EgressTrmReason     string `json:"egressTrmReason"`
	IngressCallID       string `json:"ingressCallId"`
	EgressCallID        string `json:"egressCallId"`
	IngressSipTrmReason string `json:"ingressSipTrmReason"`
	IngressSipTrmDescr  string `json:"ingressSipTrmDescr"`
	EgressSipTrmReason  string `json:"egressSipTrmReason"`
	EgressSipTrmDescr   string `json:"egressSipTrmDescr"`

	IngressSipInterfaceName string `json:"ingressSipInterfaceName"`
	IngressIPGroupName      string `json:"ingressIpGroupName"`
	EgressSipInterfaceName  string `json:"egressSipInterfaceName"`
	EgressIPGroupName       string `json:"egressIpGroupName"`

	IngressLocalRtpIP    *string `json:"ingressLocalRtpIp,omitempty"`
	IngressLocalRtpPort  *int    `json:"ingressLocalRtpPort,omitempty"`
	IngressRemoteRtpIP   *string `json:"ingressRemoteRtpIp,omitempty"`
	IngressRemoteRtpPort *int    `json:"ingressRemoteRtpPort,omitempty"`
	EgressLocalRtpIP     *string `json:"egressLocalRtpIp,omitempty"`
	EgressLocalRtpPort   *int    `json:"egressLocalRtpPort,omitempty"`
	EgressRemoteRtpIP    *string `json:"egressRemoteRtpIp,omitempty"`
	EgressRemoteRtpPort  *int    `json:"egressRemoteRtpPort,omitempty"`

	IngressCodec *string `json:"ingressCodec,omitempty"`
	EgressCodec  *string `json:"egressCodec,omitempty"`

	IngressPacketLoss      *float64 `json:"ingressPacketLoss,omitempty"`
	EgressPacketLoss       *float64 `json:"egressPacketLoss,omitempty"`
	IngressLocalPacketLoss *float64 `json:"ingressLocalPacketLoss,omitempty"`
	EgressLocalPacketLoss  *float64 `json:"egressLocalPacketLoss,omitempty"`

	IngressLocalJitter  *float64 `json:"ingressLocalJitter,omitempty"`
	IngressRemoteJitter *float64 `json:"ingressRemoteJitter,omitempty"`
	EgressLocalJitter   *float64 `json:"egressLocalJitter,omitempty"`
	EgressRemoteJitter  *float64 `json:"egressRemoteJitter,omitempty"`

	IngressLocalMos  *float64 `json:"ingressLocalMos,omitempty"`
	IngressRemoteMos *float64 `json:"ingressRemoteMos,omitempty"`
	EgressLocalMos   *float64 `json:"egressLocalMos,omitempty"`
	EgressRemoteMos  *float64 `json:"egressRemoteMos,omitempty"`

	IngressLocalRoundTripDelay  *int `json:"ingressLocalRoudTripDelay,omitempty"`
	IngressRemoteRoundTripDelay *int `json:"ingressRemoteRoudTripDelay,omitempty"`
	EgressLocalRoundTripDelay   *int `json:"egressLocalRoudTripDelay,omitempty"`
	EgressRemoteRoundTripDelay  *int `json:"egressRemoteRoudTripDelay,omitempty"`

	IngressUser    string `json:"ingressUser"`
	IngressService string `json:"ingressService"`
	EgressUser     string `json:"egressUser"`
	EgressService  string `json:"egressService"`

	IngressLocalInputPackets  *int `json:"ingressLocalInputPackets,omitempty"`
	IngressLocalOutputPackets *int `json:"ingressLocalOutputPackets,omitempty"`
	EgressLocalInputPackets   *int `json:"egressLocalInputPackets,omitempty"`
	EgressLocalOutputPackets  *int `json:"egressLocalOutputPackets,omitempty"`
}
