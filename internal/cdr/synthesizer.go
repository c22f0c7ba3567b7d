package cdr

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"call-data-gen/internal/randval"
)

// Direction of a synthesized call relative to the SBC.
type Direction string

const (
	DirectionIngress Direction = "ingress"
	DirectionEgress  Direction = "egress"
)

// Canonical addresses of the modeled deployment. The PSTN carrier sits
// behind the 88.215.55.0 block, the cloud service behind 52.114/52.112,
// and 10.0.11.175 is the SBC's own media leg.
const (
	pstnCallIP    = "88.215.55.11"
	serviceCallIP = "52.114.76.76"
	pstnRtpIP     = "88.215.55.12"
	serviceRtpIP  = "52.112.239.12"
	localRtpIP    = "10.0.11.175"

	codecG711ALaw = "g711Alaw64k"

	trmReasonNormal     = "GWAPP_NORMAL_CALL_CLEAR"
	trmReasonUnassigned = "GWAPP_UNASSIGNED_NUMBER"
	sipReasonBye        = "BYE"
	sipReasonNotFound   = "604"
	sipDescrNotFound    = "Does Not Exist Anywhere"

	sipInterfaceUDP = "UDP_SipInterface"
	sipInterfaceTLS = "TLS_SipInterface"
)

// directionProfile is the per-direction policy row: which SIP interfaces
// and canonical addresses a call leg uses depending on which side
// originates it.
type directionProfile struct {
	ingressInterface   string
	egressInterface    string
	callSourceIP       string
	callDestIP         string
	ingressRemoteRtpIP string
	egressRemoteRtpIP  string
}

var directionProfiles = map[Direction]directionProfile{
	DirectionIngress: {
		ingressInterface:   sipInterfaceUDP,
		egressInterface:    sipInterfaceTLS,
		callSourceIP:       pstnCallIP,
		callDestIP:         serviceCallIP,
		ingressRemoteRtpIP: pstnRtpIP,
		egressRemoteRtpIP:  serviceRtpIP,
	},
	DirectionEgress: {
		ingressInterface:   sipInterfaceTLS,
		egressInterface:    sipInterfaceUDP,
		callSourceIP:       serviceCallIP,
		callDestIP:         pstnCallIP,
		ingressRemoteRtpIP: serviceRtpIP,
		egressRemoteRtpIP:  pstnRtpIP,
	},
}

// SynthesizeCall builds one call-detail record for the interval boundary.
// Direction is chosen uniformly; ingress calls run PSTN → service, egress
// calls service → PSTN, with interfaces, addresses and number ranges
// resolved from the direction policy table.
func SynthesizeCall(topology TopologyDescriptor, interval int64) (Record, error) {
	direction := DirectionIngress
	if randval.Integer(0, 1) == 1 {
		direction = DirectionEgress
	}
	profile := directionProfiles[direction]

	service := topology.Services[randval.Integer(0, len(topology.Services)-1)]

	var ingressGroup, egressGroup string
	var callingSide, calledSide Endpoint
	switch direction {
	case DirectionIngress:
		ingressGroup = topology.PSTN.IPGroup
		egressGroup = service.IPGroup
		callingSide = topology.PSTN
		calledSide = service
	default:
		ingressGroup = service.IPGroup
		egressGroup = topology.PSTN.IPGroup
		callingSide = service
		calledSide = topology.PSTN
	}

	callingUser := fmt.Sprintf("+%d", randval.Integer(callingSide.NumberRangeFrom, callingSide.NumberRangeTo))
	calledUser := fmt.Sprintf("+%d", randval.Integer(calledSide.NumberRangeFrom, calledSide.NumberRangeTo))

	globalSessionID, err := randval.ID(16)
	if err != nil {
		return Record{}, fmt.Errorf("cdr: global session id: %w", err)
	}
	sessionID, err := randval.ID(12)
	if err != nil {
		return Record{}, fmt.Errorf("cdr: session id: %w", err)
	}

	connectTime := time.UnixMilli(interval).UTC()

	record := Record{
		ProductName:     topology.SBCNames[randval.Integer(0, len(topology.SBCNames)-1)],
		SetupTime:       FormatUTC(connectTime),
		GlobalSessionID: globalSessionID,
		SessionID:       sessionID,
		ConnectTimeUTC:  FormatUTC(connectTime),
		TimeZone:        "UTC",

		CallingUserBeforeManipulation: callingUser,
		CallingUserAfterManipulation:  callingUser,
		CalledUserBeforeManipulation:  calledUser,
		CalledUserAfterManipulation:   calledUser,

		IngressCallOrigin:   "in",
		EgressCallOrigin:    "out",
		IngressCallSourceIP: profile.callSourceIP,
		EgressCallDestIP:    profile.callDestIP,

		IngressCallID: uuid.NewString(),
		EgressCallID:  uuid.NewString(),

		IngressSipInterfaceName: profile.ingressInterface,
		IngressIPGroupName:      ingressGroup,
		EgressSipInterfaceName:  profile.egressInterface,
		EgressIPGroupName:       egressGroup,
	}

	if topology.Status == StatusFail {
		record.RecordType = "ATTEMPT"
		record.IsSuccess = "no"
		record.CallDuration = 0
		record.IngressTrmReason = trmReasonUnassigned
		record.EgressTrmReason = trmReasonUnassigned
		record.IngressSipTrmReason = sipReasonNotFound
		record.IngressSipTrmDescr = sipDescrNotFound
		record.EgressSipTrmReason = sipReasonNotFound
		record.EgressSipTrmDescr = sipDescrNotFound
		return record, nil
	}

	callDuration := randval.Integer(3000, 36000)
	releaseTime := FormatUTC(connectTime.Add(time.Duration(callDuration*10) * time.Millisecond))

	record.RecordType = "STOP"
	record.IsSuccess = "yes"
	record.ReleaseTimeUTC = &releaseTime
	record.TimeToConnect = ptr(randval.Integer(100, 300))
	record.CallDuration = callDuration
	record.IngressTrmReason = trmReasonNormal
	record.EgressTrmReason = trmReasonNormal
	record.IngressSipTrmReason = sipReasonBye
	record.EgressSipTrmReason = sipReasonBye

	record.IngressLocalRtpIP = ptr(localRtpIP)
	record.IngressLocalRtpPort = ptr(randval.Integer(6000, 65535))
	record.IngressRemoteRtpIP = ptr(profile.ingressRemoteRtpIP)
	record.IngressRemoteRtpPort = ptr(randval.Integer(25000, 65535))
	record.EgressLocalRtpIP = ptr(localRtpIP)
	record.EgressLocalRtpPort = ptr(randval.Integer(6000, 65535))
	record.EgressRemoteRtpIP = ptr(profile.egressRemoteRtpIP)
	record.EgressRemoteRtpPort = ptr(randval.Integer(25000, 65535))

	record.IngressCodec = ptr(codecG711ALaw)
	record.EgressCodec = ptr(codecG711ALaw)

	record.IngressPacketLoss = ptr(randval.Decimal(0, 1.5, 1))
	record.EgressPacketLoss = ptr(randval.Decimal(0, 1.5, 1))
	record.IngressLocalPacketLoss = ptr(randval.Decimal(0, 1.5, 1))
	record.EgressLocalPacketLoss = ptr(randval.Decimal(0, 1.5, 1))

	record.IngressLocalJitter = ptr(randval.Decimal(0, 15, 1))
	record.IngressRemoteJitter = ptr(randval.Decimal(0, 15, 1))
	record.EgressLocalJitter = ptr(randval.Decimal(0, 15, 1))
	record.EgressRemoteJitter = ptr(randval.Decimal(0, 15, 1))

	record.IngressLocalMos = ptr(randval.Decimal(40, 42, -1))
	record.IngressRemoteMos = ptr(randval.Decimal(40, 42, -1))
	record.EgressLocalMos = ptr(randval.Decimal(40, 42, -1))
	record.EgressRemoteMos = ptr(randval.Decimal(40, 42, -1))

	record.IngressLocalRoundTripDelay = ptr(0)
	record.IngressRemoteRoundTripDelay = ptr(0)
	record.EgressLocalRoundTripDelay = ptr(0)
	record.EgressRemoteRoundTripDelay = ptr(0)

	// One media stream, two views: what the ingress leg sends the egress
	// leg receives and vice versa.
	inbound := randval.Integer(300, 400)
	outbound := randval.Integer(300, 400)
	record.IngressLocalInputPackets = ptr(inbound)
	record.IngressLocalOutputPackets = ptr(outbound)
	record.EgressLocalInputPackets = ptr(outbound)
	record.EgressLocalOutputPackets = ptr(inbound)

	return record, nil
}

// Synthesize produces NoCallsPerInterval records for one interval boundary.
func Synthesize(topology TopologyDescriptor, interval int64) ([]Record, error) {
	records := make([]Record, 0, topology.NoCallsPerInterval)
	for i := 0; i < topology.NoCallsPerInterval; i++ {
		record, err := SynthesizeCall(topology, interval)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func ptr[T any](v T) *T { return &v }
