package log

const (
	// FldFile is the name of the log field for storing file name information
	FldFile = "file"
	// FldPath is the name of the log field for storing path name information
	FldPath = "path"
	// FldTransport is the name of the log field for storing a transport name
	FldTransport = "transport"
	// FldSession is the name of the log field for storing the session token
	FldSession = "session"
	// FldUser is the name of the log field for storing the name of the currently active user
	FldUser = "user"
	// FldVersion is the version number of the application
	FldVersion = "ver"
	// FldIP is the IP address used in the log entry
	FldIP = "ip"
	// FldID is the ID of an entity used in the log entry
	FldID = "id"
	// FldKey is the storage key a value is read from or written to
	FldKey = "key"
	// FldStatus is a hackathon status used as filter or new value
	FldStatus = "status"
	// FldMode is a hackathon mode used as filter
	FldMode = "mode"
	// FldTag is a tag used as filter or added to the catalog
	FldTag = "tag"
	// FldCount is a number of affected entities
	FldCount = "count"
	// FldBackend is the name of the storage backend in use
	FldBackend = "backend"
	// FldTitle is the title of a hackathon
	FldTitle = "title"
)
