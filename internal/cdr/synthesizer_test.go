package cdr

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"call-data-gen/internal/validate"
)

func testTopology(status Status) TopologyDescriptor {
	return TopologyDescriptor{
		NoCallsPerInterval: 4,
		Status:             status,
		SBCNames:           []string{"sbc-emea-1", "sbc-emea-2"},
		Services: []Endpoint{
			{IPGroup: "TeamsIPG", NumberRangeFrom: 441000000, NumberRangeTo: 441000999},
			{IPGroup: "ZoomIPG", NumberRangeFrom: 442000000, NumberRangeTo: 442000999},
		},
		PSTN: Endpoint{IPGroup: "PstnIPG", NumberRangeFrom: 491000000, NumberRangeTo: 491000999},
	}
}

const testInterval = int64(1750256353745) // 2025-06-18 14:19:13.745 UTC

func TestSynthesizeProducesRequestedCallCount(t *testing.T) {
	records, err := Synthesize(testTopology(StatusSuccess), testInterval)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("len(records) = %d, want 4", len(records))
	}
}

func TestSuccessfulCallFields(t *testing.T) {
	for i := 0; i < 100; i++ {
		record, err := SynthesizeCall(testTopology(StatusSuccess), testInterval)
		if err != nil {
			t.Fatalf("SynthesizeCall: %v", err)
		}
		if record.RecordType != "STOP" || record.IsSuccess != "yes" {
			t.Fatalf("recordType/isSuccess = %q/%q, want STOP/yes", record.RecordType, record.IsSuccess)
		}
		if record.CallDuration < 3000 || record.CallDuration > 36000 {
			t.Fatalf("callDuration = %d, outside [3000,36000]", record.CallDuration)
		}
		for name, port := range map[string]*int{
			"ingressLocal": record.IngressLocalRtpPort, "egressLocal": record.EgressLocalRtpPort,
		} {
			if port == nil || *port < 6000 || *port > 65535 {
				t.Fatalf("%s rtp port = %v, outside [6000,65535]", name, port)
			}
		}
		for name, port := range map[string]*int{
			"ingressRemote": record.IngressRemoteRtpPort, "egressRemote": record.EgressRemoteRtpPort,
		} {
			if port == nil || *port < 25000 || *port > 65535 {
				t.Fatalf("%s rtp port = %v, outside [25000,65535]", name, port)
			}
		}
		if record.IngressTrmReason != "GWAPP_NORMAL_CALL_CLEAR" || record.IngressSipTrmReason != "BYE" {
			t.Fatalf("termination = %q/%q, want normal clear/BYE", record.IngressTrmReason, record.IngressSipTrmReason)
		}
		if record.IngressLocalMos == nil || *record.IngressLocalMos < 40 || *record.IngressLocalMos >= 42 {
			t.Fatalf("ingressLocalMos = %v, outside [40,42)", record.IngressLocalMos)
		}
		if record.SetupTime != record.ConnectTimeUTC {
			t.Fatalf("setupTime %q != connectTimeUTC %q", record.SetupTime, record.ConnectTimeUTC)
		}
	}
}

func TestFailedCallOmitsMediaFields(t *testing.T) {
	record, err := SynthesizeCall(testTopology(StatusFail), testInterval)
	if err != nil {
		t.Fatalf("SynthesizeCall: %v", err)
	}
	if record.RecordType != "ATTEMPT" || record.IsSuccess != "no" {
		t.Fatalf("recordType/isSuccess = %q/%q, want ATTEMPT/no", record.RecordType, record.IsSuccess)
	}
	if record.CallDuration != 0 {
		t.Fatalf("callDuration = %d, want 0", record.CallDuration)
	}
	if record.ReleaseTimeUTC != nil || record.TimeToConnect != nil {
		t.Fatal("releaseTimeUTC/timeToConnect must be absent on failed attempts")
	}
	if record.IngressTrmReason != "GWAPP_UNASSIGNED_NUMBER" || record.IngressSipTrmReason != "604" {
		t.Fatalf("termination = %q/%q, want unassigned/604", record.IngressTrmReason, record.IngressSipTrmReason)
	}
	if record.IngressSipTrmDescr == "" {
		t.Fatal("failed attempt must carry a descriptive cause string")
	}

	body, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{
		"releaseTimeUTC", "timeToConnect", "RtpIp", "RtpPort", "Codec",
		"PacketLoss", "Jitter", "Mos", "RoudTripDelay", "Packets",
	} {
		if strings.Contains(string(body), key) {
			t.Fatalf("failed-attempt JSON contains %q: %s", key, body)
		}
	}
}

func TestDirectionPolicyConsistency(t *testing.T) {
	topology := testTopology(StatusSuccess)
	sawIngress, sawEgress := false, false
	for i := 0; i < 200; i++ {
		record, err := SynthesizeCall(topology, testInterval)
		if err != nil {
			t.Fatalf("SynthesizeCall: %v", err)
		}
		switch record.IngressSipInterfaceName {
		case "UDP_SipInterface":
			sawIngress = true
			if record.EgressSipInterfaceName != "TLS_SipInterface" {
				t.Fatalf("ingress call egress interface = %q, want TLS", record.EgressSipInterfaceName)
			}
			if record.IngressIPGroupName != "PstnIPG" {
				t.Fatalf("ingress call ingress ip group = %q, want PstnIPG", record.IngressIPGroupName)
			}
			if !strings.HasPrefix(record.CallingUserBeforeManipulation, "+49") {
				t.Fatalf("ingress calling number %q not drawn from the PSTN range", record.CallingUserBeforeManipulation)
			}
			if !strings.HasPrefix(record.CalledUserBeforeManipulation, "+44") {
				t.Fatalf("ingress called number %q not drawn from a service range", record.CalledUserBeforeManipulation)
			}
			if record.IngressCallSourceIP != "88.215.55.11" {
				t.Fatalf("ingress call source ip = %q", record.IngressCallSourceIP)
			}
		case "TLS_SipInterface":
			sawEgress = true
			if record.EgressSipInterfaceName != "UDP_SipInterface" {
				t.Fatalf("egress call egress interface = %q, want UDP", record.EgressSipInterfaceName)
			}
			if record.EgressIPGroupName != "PstnIPG" {
				t.Fatalf("egress call egress ip group = %q, want PstnIPG", record.EgressIPGroupName)
			}
			if !strings.HasPrefix(record.CallingUserBeforeManipulation, "+44") {
				t.Fatalf("egress calling number %q not drawn from a service range", record.CallingUserBeforeManipulation)
			}
			if !strings.HasPrefix(record.CalledUserBeforeManipulation, "+49") {
				t.Fatalf("egress called number %q not drawn from the PSTN range", record.CalledUserBeforeManipulation)
			}
		default:
			t.Fatalf("unexpected ingress interface %q", record.IngressSipInterfaceName)
		}
		if record.CallingUserBeforeManipulation != record.CallingUserAfterManipulation {
			t.Fatal("calling number must be unchanged by manipulation")
		}
	}
	if !sawIngress || !sawEgress {
		t.Fatalf("direction coverage ingress=%v egress=%v, want both over 200 calls", sawIngress, sawEgress)
	}
}

func TestWallTimeFormatting(t *testing.T) {
	got := FormatUTC(time.UnixMilli(testInterval))
	want := "14:19:13.745  UTC Wed Jun 18 2025"
	if got != want {
		t.Fatalf("FormatUTC = %q, want %q", got, want)
	}
}

func TestReleaseTimeFollowsCallDuration(t *testing.T) {
	record, err := SynthesizeCall(testTopology(StatusSuccess), testInterval)
	if err != nil {
		t.Fatalf("SynthesizeCall: %v", err)
	}
	release := time.UnixMilli(testInterval).Add(time.Duration(record.CallDuration*10) * time.Millisecond)
	if got := *record.ReleaseTimeUTC; got != FormatUTC(release) {
		t.Fatalf("releaseTimeUTC = %q, want %q", got, FormatUTC(release))
	}
}

func TestSessionIdentifiers(t *testing.T) {
	record, err := SynthesizeCall(testTopology(StatusSuccess), testInterval)
	if err != nil {
		t.Fatalf("SynthesizeCall: %v", err)
	}
	if len(record.GlobalSessionID) != 16 || len(record.SessionID) != 12 {
		t.Fatalf("session id lengths = %d/%d, want 16/12", len(record.GlobalSessionID), len(record.SessionID))
	}
	if record.IngressCallID == record.EgressCallID {
		t.Fatal("ingress and egress call ids must be distinct UUIDs")
	}
}

func TestValidateTopologyAggregates(t *testing.T) {
	err := ValidateTopology(TopologyDescriptor{})
	if err == nil {
		t.Fatal("expected error for empty topology")
	}
	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("err type = %T, want *validate.Error", err)
	}
	for _, want := range []string{"noCallsPerInterval", "status", "sbcNames", "services", "pstn.ipGroup"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("err %v missing %q", err, want)
		}
	}
}

func TestValidateTopologyNumberRanges(t *testing.T) {
	topology := testTopology(StatusSuccess)
	topology.Services[0].NumberRangeTo = topology.Services[0].NumberRangeFrom - 1
	err := ValidateTopology(topology)
	if err == nil || !strings.Contains(err.Error(), "services[0].numberRangeTo") {
		t.Fatalf("err = %v, want services[0].numberRangeTo message", err)
	}
}

func TestValidateTopologyOK(t *testing.T) {
	if err := ValidateTopology(testTopology(StatusFail)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
