package kafka

import "sort"

// ConsumerGroupMemberMetadata is the decoded form of a JoinGroupRequest
// GroupProtocol's opaque Metadata bytes for the standard "consumer" protocol
// type: the topics a member wants plus opaque UserData. Partitions owned
// before a rejoin are not carried; the two built-in strategies here ignore
// UserData.
type ConsumerGroupMemberMetadata struct {
	Version  int16
	Topics   []string
	UserData []byte
}

func (m *ConsumerGroupMemberMetadata) encode(pe packetEncoder) error {
	pe.putInt16(m.Version)
	if err := pe.putStringArray(m.Topics); err != nil {
		return err
	}
	return pe.putBytes(m.UserData)
}

func (m *ConsumerGroupMemberMetadata) decode(pd packetDecoder) (err error) {
	if m.Version, err = pd.getInt16(); err != nil {
		return err
	}
	if m.Topics, err = pd.getStringArray(); err != nil {
		return err
	}
	m.UserData, err = pd.getBytes()
	return err
}

// balanceStrategyRange implements Kafka's default "range" assignor: for each
// topic independently, sort members and partitions, and hand out contiguous
// ranges, giving the first (numPartitions mod numMembers) members one extra
// partition.
type balanceStrategyRange struct{}

// BalanceStrategyRange is the range assignor (§4.I): per topic, partitions
// are divided into contiguous ranges across sorted members.
var BalanceStrategyRange GroupBalanceStrategy = &balanceStrategyRange{}

func (s *balanceStrategyRange) Name() string { return "range" }

func (s *balanceStrategyRange) Plan(members map[string][]byte, topics map[string][]int32) (map[string]map[string][]int32, error) {
	memberIDs := sortedMemberIDs(members)
	plan := make(map[string]map[string][]int32, len(memberIDs))
	for _, id := range memberIDs {
		plan[id] = make(map[string][]int32)
	}

	memberTopics, err := decodeMemberTopics(members)
	if err != nil {
		return nil, err
	}

	for topic, partitions := range topics {
		interested := membersInterestedIn(memberIDs, memberTopics, topic)
		if len(interested) == 0 {
			continue
		}
		sorted := append([]int32(nil), partitions...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		numPartitions := len(sorted)
		numMembers := len(interested)
		perMember := numPartitions / numMembers
		extra := numPartitions % numMembers

		idx := 0
		for i, id := range interested {
			count := perMember
			if i < extra {
				count++
			}
			plan[id][topic] = append(plan[id][topic], sorted[idx:idx+count]...)
			idx += count
		}
	}
	return plan, nil
}

// balanceStrategyRoundRobin implements Kafka's "roundrobin" assignor: all
// subscribed topics' partitions are laid out together, sorted, and dealt to
// interested members in round-robin order.
type balanceStrategyRoundRobin struct{}

// BalanceStrategyRoundRobin is the roundrobin assignor (§4.I).
var BalanceStrategyRoundRobin GroupBalanceStrategy = &balanceStrategyRoundRobin{}

func (s *balanceStrategyRoundRobin) Name() string { return "roundrobin" }

func (s *balanceStrategyRoundRobin) Plan(members map[string][]byte, topics map[string][]int32) (map[string]map[string][]int32, error) {
	memberIDs := sortedMemberIDs(members)
	plan := make(map[string]map[string][]int32, len(memberIDs))
	for _, id := range memberIDs {
		plan[id] = make(map[string][]int32)
	}

	memberTopics, err := decodeMemberTopics(members)
	if err != nil {
		return nil, err
	}

	type topicPartition struct {
		topic     string
		partition int32
	}
	var all []topicPartition
	for topic, partitions := range topics {
		for _, p := range partitions {
			all = append(all, topicPartition{topic, p})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].topic != all[j].topic {
			return all[i].topic < all[j].topic
		}
		return all[i].partition < all[j].partition
	})

	next := 0
	for _, tp := range all {
		interested := membersInterestedIn(memberIDs, memberTopics, tp.topic)
		if len(interested) == 0 {
			continue
		}
		for tries := 0; tries < len(memberIDs); tries++ {
			id := memberIDs[next%len(memberIDs)]
			next++
			if contains(interested, id) {
				plan[id][tp.topic] = append(plan[id][tp.topic], tp.partition)
				break
			}
		}
	}
	return plan, nil
}

func sortedMemberIDs(members map[string][]byte) []string {
	ids := make([]string, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func decodeMemberTopics(members map[string][]byte) (map[string][]string, error) {
	out := make(map[string][]string, len(members))
	for id, meta := range members {
		m := &ConsumerGroupMemberMetadata{}
		if err := m.decode(newRealDecoder(meta)); err != nil {
			return nil, err
		}
		out[id] = m.Topics
	}
	return out, nil
}

func membersInterestedIn(memberIDs []string, memberTopics map[string][]string, topic string) []string {
	var out []string
	for _, id := range memberIDs {
		if contains(memberTopics[id], topic) {
			out = append(out, id)
		}
	}
	return out
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
