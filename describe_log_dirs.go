package kafka

func init() {
	registerAPI(apiKeyDescribeLogDirs, "DescribeLogDirs", 0, 1,
		func() protocolBody { return &DescribeLogDirsRequest{} },
		func() protocolBody { return &DescribeLogDirsResponse{} })
}

// DescribeLogDirsRequest asks a single broker to report disk usage per
// topic-partition across its configured log directories; a nil Topics
// means "all of them". Backs ClusterAdmin.DescribeLogDirs (§4.G).
type DescribeLogDirsRequest struct {
	Version int16
	Topics  []string
}

func (d *DescribeLogDirsRequest) setVersion(v int16) { d.Version = v }

func (d *DescribeLogDirsRequest) encode(pe packetEncoder) error {
	if d.Topics == nil {
		pe.putInt32(-1)
		return nil
	}
	return pe.putStringArray(d.Topics)
}

func (d *DescribeLogDirsRequest) decode(pd packetDecoder, version int16) (err error) {
	d.Version = version
	n, err := pd.getInt32()
	if err != nil {
		return err
	}
	if n < 0 {
		return nil
	}
	d.Topics = make([]string, n)
	for i := 0; i < int(n); i++ {
		if d.Topics[i], err = pd.getString(); err != nil {
			return err
		}
	}
	return nil
}

func (d *DescribeLogDirsRequest) key() int16          { return apiKeyDescribeLogDirs }
func (d *DescribeLogDirsRequest) version() int16       { return d.Version }
func (d *DescribeLogDirsRequest) headerVersion() int16 { return 1 }
func (d *DescribeLogDirsRequest) isValidVersion() bool { return d.Version >= 0 && d.Version <= 1 }
func (d *DescribeLogDirsRequest) requiredVersion() KafkaVersion { return V1_0_0_0 }

type DescribeLogDirsResponseDirTopic struct {
	Topic      string
	Partitions []DescribeLogDirsResponseDirPartition
}

type DescribeLogDirsResponseDirPartition struct {
	PartitionID int32
	Size        int64
	OffsetLag   int64
	IsTemporary bool
}

type DescribeLogDirsResponseDirMetadata struct {
	ErrorCode int16
	Path      string
	Topics    []DescribeLogDirsResponseDirTopic
}

func (d *DescribeLogDirsResponseDirMetadata) err() error {
	if d.ErrorCode == 0 {
		return nil
	}
	return KError(d.ErrorCode)
}

type DescribeLogDirsResponse struct {
	Version        int16
	ThrottleTimeMs int32
	LogDirs        []DescribeLogDirsResponseDirMetadata
}

func (d *DescribeLogDirsResponse) setVersion(v int16) { d.Version = v }

func (d *DescribeLogDirsResponse) encode(pe packetEncoder) error {
	pe.putInt32(d.ThrottleTimeMs)
	if err := pe.putArrayLength(len(d.LogDirs)); err != nil {
		return err
	}
	for _, dir := range d.LogDirs {
		pe.putInt16(dir.ErrorCode)
		if err := pe.putString(dir.Path); err != nil {
			return err
		}
		if err := pe.putArrayLength(len(dir.Topics)); err != nil {
			return err
		}
		for _, t := range dir.Topics {
			if err := pe.putString(t.Topic); err != nil {
				return err
			}
			if err := pe.putArrayLength(len(t.Partitions)); err != nil {
				return err
			}
			for _, p := range t.Partitions {
				pe.putInt32(p.PartitionID)
				pe.putInt64(p.Size)
				pe.putInt64(p.OffsetLag)
				pe.putBool(p.IsTemporary)
			}
		}
	}
	return nil
}

func (d *DescribeLogDirsResponse) decode(pd packetDecoder, version int16) (err error) {
	d.Version = version
	if d.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	d.LogDirs = make([]DescribeLogDirsResponseDirMetadata, n)
	for i := 0; i < n; i++ {
		dir := &d.LogDirs[i]
		if dir.ErrorCode, err = pd.getInt16(); err != nil {
			return err
		}
		if dir.Path, err = pd.getString(); err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		dir.Topics = make([]DescribeLogDirsResponseDirTopic, m)
		for j := 0; j < m; j++ {
			t := &dir.Topics[j]
			if t.Topic, err = pd.getString(); err != nil {
				return err
			}
			k, err := pd.getArrayLength()
			if err != nil {
				return err
			}
			t.Partitions = make([]DescribeLogDirsResponseDirPartition, k)
			for l := 0; l < k; l++ {
				p := &t.Partitions[l]
				if p.PartitionID, err = pd.getInt32(); err != nil {
					return err
				}
				if p.Size, err = pd.getInt64(); err != nil {
					return err
				}
				if p.OffsetLag, err = pd.getInt64(); err != nil {
					return err
				}
				if p.IsTemporary, err = pd.getBool(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (d *DescribeLogDirsResponse) key() int16          { return apiKeyDescribeLogDirs }
func (d *DescribeLogDirsResponse) version() int16       { return d.Version }
func (d *DescribeLogDirsResponse) headerVersion() int16 { return 0 }
func (d *DescribeLogDirsResponse) isValidVersion() bool { return d.Version >= 0 && d.Version <= 1 }
func (d *DescribeLogDirsResponse) requiredVersion() KafkaVersion { return V1_0_0_0 }
func (d *DescribeLogDirsResponse) throttleTime() int32           { return d.ThrottleTimeMs }
