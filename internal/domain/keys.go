package domain

// KeyPrefix namespaces every key the service writes to the store.
const KeyPrefix = "resumechat:"
