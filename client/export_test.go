package client

var AuthHeader = authHeader
var AcceptHeader = acceptHeader
var ContentTypeHeader = contentTypeHeader
var UserAgentHeader = userAgentHeader

var FormContentType = formContentType

var GetSleepDuration = getSleepDuration
