package kafka

import "testing"

func TestDescribeClientQuotasRequestRoundTrip(t *testing.T) {
	req := &DescribeClientQuotasRequest{
		Version: 0,
		Filters: []QuotaEntityComponent{
			{EntityType: "client-id", MatchName: "foo", MatchDefault: false},
		},
		Strict: true,
	}
	testRequest(t, "DescribeClientQuotas", req, nil)
}

func TestAlterClientQuotasRequestRoundTrip(t *testing.T) {
	limit := 1024.0
	req := &AlterClientQuotasRequest{
		Version: 0,
		Entries: []ClientQuotaAlteration{
			{
				Entity: ClientQuotaEntity{Components: []QuotaEntityComponent{{EntityType: "user", MatchName: "alice"}}},
				Ops:    map[string]*float64{"producer_byte_rate": &limit},
			},
		},
		ValidateOnly: false,
	}
	testRequest(t, "AlterClientQuotas", req, nil)
}

func TestAlterPartitionReassignmentsRequestRoundTrip(t *testing.T) {
	req := &AlterPartitionReassignmentsRequest{
		Version:   0,
		TimeoutMs: 30000,
		Topics: map[string]map[int32][]int32{
			"orders": {0: {1, 2, 3}, 1: nil},
		},
	}
	testRequest(t, "AlterPartitionReassignments", req, nil)
}

func TestListPartitionReassignmentsRequestRoundTrip(t *testing.T) {
	req := &ListPartitionReassignmentsRequest{
		Version:   0,
		TimeoutMs: 30000,
		Topics:    nil,
	}
	testRequest(t, "ListPartitionReassignments", req, nil)
}

func TestElectLeadersRequestRoundTripV0(t *testing.T) {
	req := &ElectLeadersRequest{
		Version:         0,
		TopicPartitions: map[string][]int32{"orders": {0, 1}},
		TimeoutMs:       5000,
	}
	testRequest(t, "ElectLeaders v0", req, nil)
}

func TestElectLeadersRequestRoundTripV1(t *testing.T) {
	req := &ElectLeadersRequest{
		Version:         1,
		Type:            UncleanElection,
		TopicPartitions: nil,
		TimeoutMs:       5000,
	}
	testRequest(t, "ElectLeaders v1", req, nil)
}

func TestDescribeUserScramCredentialsRequestRoundTrip(t *testing.T) {
	req := &DescribeUserScramCredentialsRequest{Version: 0, Users: []string{"alice", "bob"}}
	testRequest(t, "DescribeUserScramCredentials", req, nil)
}

func TestAlterUserScramCredentialsRequestRoundTrip(t *testing.T) {
	req := &AlterUserScramCredentialsRequest{
		Version: 0,
		Deletions: []ScramCredentialDeletion{
			{User: "carol", Mechanism: ScramMechanismSHA256},
		},
		Upsertions: []ScramCredentialUpsertion{
			{
				User:           "alice",
				Mechanism:      ScramMechanismSHA512,
				Iterations:     8192,
				Salt:           []byte("salt"),
				SaltedPassword: []byte("salted"),
			},
		},
	}
	testRequest(t, "AlterUserScramCredentials", req, nil)
}

func TestCreateDelegationTokenRequestRoundTrip(t *testing.T) {
	req := &CreateDelegationTokenRequest{
		Version:       0,
		Renewers:      []DelegationTokenRenewer{{PrincipalType: "User", PrincipalName: "alice"}},
		MaxLifetimeMs: 86400000,
	}
	testRequest(t, "CreateDelegationToken", req, nil)
}

func TestDescribeDelegationTokenRequestRoundTrip(t *testing.T) {
	req := &DescribeDelegationTokenRequest{Version: 0, Owners: nil}
	testRequest(t, "DescribeDelegationToken", req, nil)
}

func TestUpdateFeaturesRequestRoundTrip(t *testing.T) {
	req := &UpdateFeaturesRequest{
		Version:   0,
		TimeoutMs: 10000,
		Updates: []FeatureUpdate{
			{Feature: "metadata.version", MaxVersionLevel: 7, AllowDowngrade: false},
		},
		ValidateOnly: true,
	}
	testRequest(t, "UpdateFeatures", req, nil)
}
