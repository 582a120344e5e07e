package device

// Receiver commands, see
// http://support.maestro-wireless.com/knowledgebase.php?article=6
const (
	ColdResetSentence = "$PSRF101,-2686727,-4304282,3851642,75000,95629,1684,12,4*24\r\n"
	ShutdownSentence  = "$PSRF117,16*0B\r\n"
)
