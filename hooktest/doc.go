/*
Package hooktest provides observers for testing code that uses httphook, in the
same spirit as net/http/httptest.
*/
package hooktest
