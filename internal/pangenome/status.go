package pangenome

// Status tracks where a piece of pangenome content comes from.
type Status int

const (
	// StatusNo means the content has not been produced.
	StatusNo Status = iota
	// StatusLoaded means the content was read from a stored pangenome.
	StatusLoaded
	// StatusComputed means the content was computed in this process.
	StatusComputed
	// StatusInFile means the content exists in the backing store but has
	// not been loaded into memory.
	StatusInFile
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusNo:
		return "No"
	case StatusLoaded:
		return "Loaded"
	case StatusComputed:
		return "Computed"
	case StatusInFile:
		return "inFile"
	default:
		return "unknown"
	}
}

// StatusFlags records which processing stages a pangenome has been through.
// The core model reads these; the persistence layer and the build pipeline
// write them.
type StatusFlags struct {
	GenomesAnnotated    Status
	GeneSequences       Status
	GenesClustered      Status
	Defragmented        Status
	GeneFamilySequences Status
	NeighborsGraph      Status
	Partitioned         Status
	PredictedRGP        Status
}
