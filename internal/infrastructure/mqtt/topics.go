package mqtt

// Topic constants for the bridge's own announcements. Telemetry topics
// belong to the devices; the bridge only ever publishes to its system
// namespace.
const (
	// TopicPrefixSystem is the base for bridge system topics.
	TopicPrefixSystem = "tsbridge/system"
)

// Topics provides builders for the bridge's MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
type Topics struct{}

// SystemStatus returns the retained status topic carrying online/offline
// announcements and the Last Will message.
//
// Example payload: {"status":"online","client_id":"tsbridge",...}
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}
